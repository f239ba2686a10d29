package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/docshield/pdf-redaction-service/internal/app"
	"github.com/docshield/pdf-redaction-service/internal/models"
	"github.com/docshield/pdf-redaction-service/internal/redact"
)

const usage = `PDF Redaction Service

Usage:
  redactor redact   -in <file> [-out <file>] -terms <t1,t2,...> [-engine <name>]
  redactor evaluate -original <file> -redacted <file> -terms <t1,t2,...> [-engine <name>]
  redactor validate -in <file> [-engine <name>]
  redactor engines

Common flags:
  -config <path>   configuration file (default config.yaml)
  -format <fmt>    output format: text or json (default text)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	var exitCode int
	switch os.Args[1] {
	case "redact":
		exitCode = runRedact(os.Args[2:])
	case "evaluate":
		exitCode = runEvaluate(os.Args[2:])
	case "validate":
		exitCode = runValidate(os.Args[2:])
	case "engines":
		exitCode = runEngines(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func buildApp(configPath string) (*app.Application, error) {
	config, err := models.Load(configPath)
	if err != nil {
		return nil, err
	}

	log.Printf("Storage backend: %s", config.Storage.Backend)
	log.Printf("Default engine: %s", config.Engine.Default)
	log.Printf("Quality extractor: %s", config.Quality.Extractor)

	return app.New(config)
}

func runRedact(args []string) int {
	fs := flag.NewFlagSet("redact", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	format := fs.String("format", "text", "output format: text or json")
	in := fs.String("in", "", "source PDF")
	out := fs.String("out", "", "destination PDF (optional)")
	terms := fs.String("terms", "", "comma-separated terms to redact")
	engineName := fs.String("engine", "", "redaction engine (optional)")
	fs.Parse(args)

	application, err := buildApp(*configPath)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}

	result := application.RedactDocument(context.Background(), redact.Request{
		SourcePath:      *in,
		DestinationPath: *out,
		Terms:           splitTerms(*terms),
		Engine:          *engineName,
	})

	if *format == "json" {
		printJSON(result)
	} else {
		if result.Success {
			fmt.Printf("Redacted %d occurrence(s) of %d term(s)\n",
				result.TotalOccurrencesObfuscated, result.TotalTermsProcessed)
			fmt.Printf("Output: %s\n", result.OutputDocument.Path)
		} else {
			fmt.Printf("Redaction failed: %s\n", result.Error)
		}
		for _, tr := range result.TermResults {
			fmt.Printf("  %-12s %q: %d occurrence(s)\n", tr.Status, tr.Term.Text, tr.OccurrencesCount())
		}
	}

	if !result.Success {
		return 1
	}
	return 0
}

func runEvaluate(args []string) int {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	format := fs.String("format", "text", "output format: text or json")
	original := fs.String("original", "", "original PDF")
	redacted := fs.String("redacted", "", "redacted PDF")
	terms := fs.String("terms", "", "comma-separated terms that were redacted")
	engineName := fs.String("engine", "", "engine the document was redacted with")
	fs.Parse(args)

	application, err := buildApp(*configPath)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}

	report, err := application.EvaluateQuality(context.Background(),
		*original, *redacted, splitTerms(*terms), *engineName)
	if err != nil {
		log.Printf("Evaluation failed: %v", err)
		return 1
	}

	if *format == "json" {
		printJSON(report)
	} else {
		fmt.Printf("Quality report %s\n", report.ID)
		fmt.Printf("  Completeness:     %.3f\n", report.Metrics.CompletenessScore)
		fmt.Printf("  Precision:        %.3f\n", report.Metrics.PrecisionScore)
		fmt.Printf("  Visual integrity: %.3f\n", report.Metrics.VisualIntegrityScore)
		fmt.Printf("  Overall:          %.3f\n", report.Metrics.OverallScore)
		if len(report.Metrics.NonObfuscatedTerms) > 0 {
			fmt.Printf("  Still visible: %s\n", strings.Join(report.Metrics.NonObfuscatedTerms, ", "))
		}
		if len(report.Metrics.FalsePositiveTerms) > 0 {
			fmt.Printf("  Lost collaterally: %s\n", strings.Join(report.Metrics.FalsePositiveTerms, ", "))
		}
	}
	return 0
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	in := fs.String("in", "", "PDF to validate")
	engineName := fs.String("engine", "", "engine to validate with (optional)")
	fs.Parse(args)

	application, err := buildApp(*configPath)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}

	if err := application.ValidateDocument(context.Background(), *in, *engineName); err != nil {
		fmt.Printf("Document is not processable: %v\n", err)
		return 1
	}
	fmt.Printf("Document %s is processable\n", *in)
	return 0
}

func runEngines(args []string) int {
	fs := flag.NewFlagSet("engines", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "configuration file")
	format := fs.String("format", "text", "output format: text or json")
	fs.Parse(args)

	application, err := buildApp(*configPath)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}

	infos := application.Engines()
	if *format == "json" {
		printJSON(infos)
	} else {
		for _, info := range infos {
			fmt.Printf("%-8s %s\n", info.Name, info.Description)
		}
	}
	return 0
}

func splitTerms(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("Failed to encode output: %v", err)
	}
}

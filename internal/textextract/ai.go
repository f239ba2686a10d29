package textextract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// Provider is a vision-capable AI back-end that answers a prompt about a
// page image.
type Provider interface {
	ExtractData(ctx context.Context, prompt string, imagePNG []byte) (string, error)
	Name() string
}

const transcriptionPrompt = `You are an expert OCR system. Transcribe ALL readable text from this document page.

Rules:
1. Output ONLY the transcribed text, no commentary
2. Preserve the reading order: top to bottom, left to right
3. Blacked-out or redacted regions contain no text - skip them entirely
4. Do not guess at obscured or unreadable words
5. Keep one line of the document per line of output`

const annotationPrompt = `Analyze this document page and return ONLY valid JSON (no markdown, no comments):
{
  "total_words": number of readable words on the page,
  "unique_words": number of distinct readable words,
  "document_type": "CV, invoice, contract, letter, report, or other",
  "language": "primary language of the document",
  "summary": "one sentence describing the document and any redacted regions",
  "confidence_score": your confidence in this analysis from 0.0 to 1.0
}`

// OpenAIProvider answers prompts with an OpenAI vision chat model.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI provider. baseURL may be empty to
// use the public API.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) ExtractData(ctx context.Context, prompt string, imagePNG []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/png;base64," + encoded,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiProvider answers prompts with a Gemini vision model.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) ExtractData(ctx context.Context, prompt string, imagePNG []byte) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt), genai.ImageData("png", imagePNG))
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("Gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// AIExtractor recovers document text through a vision provider, one page
// at a time.
type AIExtractor struct {
	provider  Provider
	renderDPI float64
}

func NewAIExtractor(provider Provider, renderDPI float64) *AIExtractor {
	if renderDPI <= 0 {
		renderDPI = 200
	}
	return &AIExtractor{provider: provider, renderDPI: renderDPI}
}

func (e *AIExtractor) Name() string { return e.provider.Name() }

func (e *AIExtractor) Extract(ctx context.Context, doc []byte) (*ExtractionResult, error) {
	pages, err := e.renderPages(doc)
	if err != nil {
		return nil, err
	}
	return e.extractFromPages(ctx, pages)
}

func (e *AIExtractor) extractFromPages(ctx context.Context, pages [][]byte) (*ExtractionResult, error) {
	start := time.Now()

	result := &ExtractionResult{PageCount: len(pages)}
	var full strings.Builder
	for i, pagePNG := range pages {
		text, err := e.provider.ExtractData(ctx, transcriptionPrompt, pagePNG)
		if err != nil {
			return nil, domain.NewProcessingError("extract", fmt.Errorf("page %d: %w", i+1, err))
		}
		result.Pages = append(result.Pages, PageText{PageNumber: i + 1, Text: text})
		if full.Len() > 0 {
			full.WriteByte('\n')
		}
		full.WriteString(text)
	}

	result.Text = full.String()
	result.WordCount = len(strings.Fields(result.Text))
	result.Duration = time.Since(start)
	return result, nil
}

// ExtractAnnotated extracts the text and asks the provider for a quality
// annotation of the first page.
func (e *AIExtractor) ExtractAnnotated(ctx context.Context, doc []byte) (*ExtractionResult, *QualityAnnotation, error) {
	pages, err := e.renderPages(doc)
	if err != nil {
		return nil, nil, err
	}

	result, err := e.extractFromPages(ctx, pages)
	if err != nil {
		return nil, nil, err
	}
	if len(pages) == 0 {
		return result, nil, nil
	}

	response, err := e.provider.ExtractData(ctx, annotationPrompt, pages[0])
	if err != nil {
		return nil, nil, domain.NewProcessingError("annotate", err)
	}

	annotation, err := parseAnnotation(response)
	if err != nil {
		return nil, nil, domain.NewProcessingError("annotate", err)
	}
	return result, annotation, nil
}

func (e *AIExtractor) renderPages(doc []byte) ([][]byte, error) {
	pdfDoc, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, domain.NewProcessingError("open", err)
	}
	defer pdfDoc.Close()

	pages := make([][]byte, 0, pdfDoc.NumPage())
	for n := 0; n < pdfDoc.NumPage(); n++ {
		img, err := pdfDoc.ImageDPI(n, e.renderDPI)
		if err != nil {
			return nil, domain.NewProcessingError("render", fmt.Errorf("page %d: %w", n+1, err))
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, domain.NewProcessingError("encode", fmt.Errorf("page %d: %w", n+1, err))
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

// parseAnnotation decodes the provider's JSON answer, tolerating markdown
// code fences around it.
func parseAnnotation(response string) (*QualityAnnotation, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var annotation QualityAnnotation
	if err := json.Unmarshal([]byte(cleaned), &annotation); err != nil {
		return nil, fmt.Errorf("failed to parse annotation: %w - response: %s", err, cleaned)
	}
	return &annotation, nil
}

package redact

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docshield/pdf-redaction-service/internal/domain"
	"github.com/docshield/pdf-redaction-service/internal/engine"
	"github.com/docshield/pdf-redaction-service/internal/models"
)

// fakeEngine reports canned occurrences for the terms it knows.
type fakeEngine struct {
	found      map[string]int // lowercase term -> occurrence count
	locateErr  error
	redactErr  error
	redactedTo []byte
}

func (f *fakeEngine) Locate(doc []byte, term domain.Term) ([]domain.TermOccurrence, error) {
	if f.locateErr != nil {
		return nil, f.locateErr
	}
	count := f.found[strings.ToLower(term.Text)]
	occs := make([]domain.TermOccurrence, 0, count)
	for i := 0; i < count; i++ {
		pos, _ := domain.NewPosition(float64(i*10), 0, float64(i*10+50), 12)
		occ, _ := domain.NewTermOccurrence(term, pos, 1)
		occs = append(occs, occ)
	}
	return occs, nil
}

func (f *fakeEngine) Redact(doc []byte, occs []domain.TermOccurrence) ([]byte, error) {
	if f.redactErr != nil {
		return nil, f.redactErr
	}
	f.redactedTo = []byte("redacted")
	return f.redactedTo, nil
}

func (f *fakeEngine) Validate(doc []byte) error { return nil }

func (f *fakeEngine) Info() engine.EngineInfo {
	return engine.EngineInfo{Name: "fake"}
}

type fakeRegistry struct {
	engine *fakeEngine
}

func (r *fakeRegistry) Get(name string) (engine.Processor, error) {
	if name != "fake" {
		return nil, fmt.Errorf("unsupported engine %q", name)
	}
	return r.engine, nil
}

// memStorage is an in-memory FileStorage.
type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) Exists(_ context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memStorage) Read(_ context.Context, path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, &domain.StorageError{Path: path, Err: fmt.Errorf("not found")}
	}
	return content, nil
}

func (m *memStorage) Write(_ context.Context, path string, content []byte) error {
	m.files[path] = content
	return nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func testConfig() *models.Config {
	return &models.Config{
		Paths: models.PathsConfig{
			InputDir:     "data/input",
			OutputDir:    "data/output",
			OutputSuffix: "_redacted.pdf",
		},
		Engine: models.EngineConfig{Default: "fake"},
	}
}

func newTestService(eng *fakeEngine, store *memStorage) *Service {
	return NewService(store, &fakeRegistry{engine: eng}, testConfig())
}

func TestRedactDocumentSuccess(t *testing.T) {
	store := newMemStorage()
	store.files["data/input/report.pdf"] = []byte("%PDF-1.7")
	eng := &fakeEngine{found: map[string]int{"confidential": 2, "acme corp": 1}}

	result := newTestService(eng, store).RedactDocument(context.Background(), Request{
		SourcePath: "data/input/report.pdf",
		Terms:      []string{"Confidential", "Acme Corp", "missing"},
	})

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.TotalTermsProcessed != 3 {
		t.Errorf("TotalTermsProcessed = %d, want 3", result.TotalTermsProcessed)
	}
	if result.TotalOccurrencesObfuscated != 3 {
		t.Errorf("TotalOccurrencesObfuscated = %d, want 3", result.TotalOccurrencesObfuscated)
	}
	if len(result.FoundTermResults()) != 2 {
		t.Errorf("expected 2 found terms, got %d", len(result.FoundTermResults()))
	}
	for _, tr := range result.TermResults {
		if tr.Term.Is("missing") && tr.Status != domain.StatusNotFound {
			t.Errorf("missing term should be not_found, got %q", tr.Status)
		}
	}

	want := filepath.Join("data/output", "report.pdf")
	if result.OutputDocument == nil || result.OutputDocument.Path != want {
		t.Errorf("output document = %+v, want path %q", result.OutputDocument, want)
	}
	if string(store.files[want]) != "redacted" {
		t.Error("redacted bytes were not written to storage")
	}
}

func TestRedactDocumentNoTermsFound(t *testing.T) {
	store := newMemStorage()
	store.files["doc.pdf"] = []byte("%PDF-1.7")
	eng := &fakeEngine{found: map[string]int{}}

	result := newTestService(eng, store).RedactDocument(context.Background(), Request{
		SourcePath: "doc.pdf",
		Terms:      []string{"absent"},
	})

	if result.Success {
		t.Fatal("expected failure when no terms are found")
	}
	if !strings.Contains(result.Message, "no terms found") {
		t.Errorf("unexpected message %q", result.Message)
	}
	if result.TotalOccurrencesObfuscated != 0 {
		t.Errorf("expected 0 occurrences, got %d", result.TotalOccurrencesObfuscated)
	}
	if len(store.files) != 1 {
		t.Error("no output should be written on failure")
	}
}

func TestRedactDocumentValidation(t *testing.T) {
	store := newMemStorage()
	store.files["doc.pdf"] = []byte("%PDF-1.7")
	eng := &fakeEngine{found: map[string]int{"x": 1}}
	svc := newTestService(eng, store)
	ctx := context.Background()

	cases := []struct {
		name string
		req  Request
		want string
	}{
		{"empty source", Request{Terms: []string{"x"}}, "source document path"},
		{"blank terms", Request{SourcePath: "doc.pdf", Terms: []string{" ", ""}}, "at least one"},
		{"no terms", Request{SourcePath: "doc.pdf"}, "at least one"},
		{"unknown engine", Request{SourcePath: "doc.pdf", Terms: []string{"x"}, Engine: "nope"}, "unsupported engine"},
		{"missing source", Request{SourcePath: "gone.pdf", Terms: []string{"x"}}, "not found"},
		{"same destination", Request{SourcePath: "doc.pdf", DestinationPath: "doc.pdf", Terms: []string{"x"}}, "differ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.RedactDocument(ctx, tc.req)
			if result.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(result.Error, tc.want) {
				t.Errorf("error %q does not mention %q", result.Error, tc.want)
			}
		})
	}
}

func TestRedactDocumentLocateErrorPerTerm(t *testing.T) {
	store := newMemStorage()
	store.files["doc.pdf"] = []byte("%PDF-1.7")
	eng := &fakeEngine{locateErr: fmt.Errorf("corrupt page tree")}

	result := newTestService(eng, store).RedactDocument(context.Background(), Request{
		SourcePath: "doc.pdf",
		Terms:      []string{"x"},
	})

	if result.Success {
		t.Fatal("expected failure")
	}
	if len(result.TermResults) != 1 || result.TermResults[0].Status != domain.StatusError {
		t.Fatalf("expected one errored term result, got %+v", result.TermResults)
	}
	if !strings.Contains(result.TermResults[0].Message, "corrupt") {
		t.Errorf("term message should carry the cause, got %q", result.TermResults[0].Message)
	}

	// A location failure is not the same outcome as a clean no-match.
	if strings.Contains(result.Error, "no terms found") {
		t.Errorf("location failure reported as no-match: %q", result.Error)
	}
	if !strings.Contains(result.Error, "corrupt") {
		t.Errorf("result error should carry the cause, got %q", result.Error)
	}
}

func TestRedactDocumentRedactError(t *testing.T) {
	store := newMemStorage()
	store.files["doc.pdf"] = []byte("%PDF-1.7")
	eng := &fakeEngine{found: map[string]int{"x": 1}, redactErr: fmt.Errorf("render failed")}

	result := newTestService(eng, store).RedactDocument(context.Background(), Request{
		SourcePath: "doc.pdf",
		Terms:      []string{"x"},
	})

	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Error, "render failed") {
		t.Errorf("error should carry the cause, got %q", result.Error)
	}
}

func TestDefaultDestination(t *testing.T) {
	svc := newTestService(&fakeEngine{}, newMemStorage())

	got := svc.defaultDestination(filepath.Join("data/input", "sub", "a.pdf"))
	if want := filepath.Join("data/output", "sub", "a.pdf"); got != want {
		t.Errorf("input-dir source: got %q, want %q", got, want)
	}

	got = svc.defaultDestination("/tmp/elsewhere/b.pdf")
	if want := "/tmp/elsewhere/b_redacted.pdf"; got != want {
		t.Errorf("outside source: got %q, want %q", got, want)
	}
}

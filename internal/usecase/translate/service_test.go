package translate

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/domain"
	"github.com/samachar-ai/newsbot/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type mockTranslator struct {
	result string
	err    error
	calls  int
}

func (m *mockTranslator) Translate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.result, m.err
}

func TestTranslateQuery_Success(t *testing.T) {
	tr := &mockTranslator{result: "તાજેતરની ક્રિકેટ"}
	svc := New(tr, nil, nil, zap.NewNop())

	got, err := svc.TranslateQuery(context.Background(), "latest cricket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "તાજેતરની ક્રિકેટ" {
		t.Errorf("unexpected translation: %q", got)
	}
}

func TestTranslateQuery_NoLatinSkipsProvider(t *testing.T) {
	tr := &mockTranslator{result: "ignored"}
	svc := New(tr, nil, nil, zap.NewNop())

	got, err := svc.TranslateQuery(context.Background(), "તાજેતરની ક્રિકેટ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "તાજેતરની ક્રિકેટ" {
		t.Errorf("expected input unchanged, got %q", got)
	}
	if tr.calls != 0 {
		t.Fatalf("provider must not be called for Latin-free input, got %d calls", tr.calls)
	}
}

func TestTranslateQuery_FailureFallsBackToOriginal(t *testing.T) {
	tr := &mockTranslator{err: domain.ErrTranslationFailed}
	svc := New(tr, nil, nil, zap.NewNop())

	got, err := svc.TranslateQuery(context.Background(), "latest cricket")
	if !errors.Is(err, domain.ErrTranslationFailed) {
		t.Fatalf("expected warning error, got %v", err)
	}
	if got != "latest cricket" {
		t.Errorf("expected original text on failure, got %q", got)
	}
}

func TestTranslateContent_FailureRendersErrorString(t *testing.T) {
	tr := &mockTranslator{err: domain.ErrTranslationFailed}
	svc := New(tr, nil, nil, zap.NewNop())

	got, err := svc.TranslateContent(context.Background(), "full article body")
	if !errors.Is(err, domain.ErrTranslationFailed) {
		t.Fatalf("expected error, got %v", err)
	}
	if got != ContentErrorMessage {
		t.Errorf("expected literal error message, got %q", got)
	}
}

func TestTranslateContent_Success(t *testing.T) {
	tr := &mockTranslator{result: "અનુવાદિત લેખ"}
	svc := New(tr, nil, nil, zap.NewNop())

	got, err := svc.TranslateContent(context.Background(), "article body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "અનુવાદિત લેખ" {
		t.Errorf("unexpected translation: %q", got)
	}
}

// fakeCache returns a canned value without touching the translator.
type fakeCache struct {
	value  string
	filled bool
}

func (f *fakeCache) Fetch(
	ctx context.Context, input string,
	fill func(ctx context.Context, input string) (string, error),
) (string, error) {
	if f.value != "" {
		return f.value, nil
	}
	f.filled = true
	return fill(ctx, input)
}

func TestTranslateQuery_UsesCache(t *testing.T) {
	tr := &mockTranslator{result: "fresh"}
	c := &fakeCache{value: "cached"}
	svc := New(tr, c, nil, zap.NewNop())

	got, err := svc.TranslateQuery(context.Background(), "latest cricket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "cached" {
		t.Errorf("expected cached value, got %q", got)
	}
	if tr.calls != 0 {
		t.Error("translator must not be called on cache hit")
	}
}

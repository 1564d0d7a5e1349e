package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, article *model.Article) error
	mu        sync.Mutex
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, article *model.Article) error {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	if m.doFunc != nil {
		return m.doFunc(ctx, article)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func (m *mockStep) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies WithLogger option", func(t *testing.T) {
		t.Parallel()

		logger := discardLogger()
		p := New(WithLogger(logger))

		if p.logger != logger {
			t.Error("expected custom logger to be set")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(discardLogger()))
		p.AddStep(&mockStep{name: "test-step"})

		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("adds multiple steps with AddSteps", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(discardLogger()))
		p.AddSteps(
			&mockStep{name: "first"},
			&mockStep{name: "second"},
		)

		names := p.StepNames()
		if len(names) != 2 || names[0] != "first" || names[1] != "second" {
			t.Errorf("StepNames() = %v, expected [first second]", names)
		}
	})
}

// TestPipelineExecute tests pipeline execution on a single article.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *model.Article) error {
					order = append(order, name)
					return nil
				},
			}
		}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(record("validate"), record("annotate"))

		article := &model.Article{URL: "https://news.web.nhk/news/easy/k1/k1.html"}
		if err := p.Execute(context.Background(), article); err != nil {
			t.Fatalf("Execute() returned unexpected error: %v", err)
		}

		if len(order) != 2 || order[0] != "validate" || order[1] != "annotate" {
			t.Errorf("execution order = %v, expected [validate annotate]", order)
		}
	})

	t.Run("stops on first step error", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("step failed")
		failing := &mockStep{
			name: "failing",
			doFunc: func(_ context.Context, _ *model.Article) error {
				return stepErr
			},
		}
		never := &mockStep{name: "never"}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(failing, never)

		err := p.Execute(context.Background(), &model.Article{URL: "https://example.com"})
		if !errors.Is(err, stepErr) {
			t.Fatalf("Execute() error = %v, expected %v", err, stepErr)
		}
		if never.calls() != 0 {
			t.Errorf("step after failure ran %d times, expected 0", never.calls())
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "only"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Execute(ctx, &model.Article{URL: "https://example.com"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Execute() error = %v, expected context.Canceled", err)
		}
		if step.calls() != 0 {
			t.Errorf("step ran %d times on a cancelled context, expected 0", step.calls())
		}
	})

	t.Run("steps mutate the article in place", func(t *testing.T) {
		t.Parallel()

		p := New(WithLogger(discardLogger()))
		p.AddStep(&mockStep{
			name: "stamp",
			doFunc: func(_ context.Context, article *model.Article) error {
				article.Stats = &model.Stats{TotalKanji: 3}
				return nil
			},
		})

		article := &model.Article{URL: "https://example.com"}
		if err := p.Execute(context.Background(), article); err != nil {
			t.Fatalf("Execute() returned unexpected error: %v", err)
		}
		if article.Stats == nil || article.Stats.TotalKanji != 3 {
			t.Errorf("Stats = %v, expected TotalKanji 3", article.Stats)
		}
	})
}

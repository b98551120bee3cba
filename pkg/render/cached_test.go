package render

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/mdgraph/pkg/cache"
)

type countingRenderer struct {
	calls int
	err   error
}

func (r *countingRenderer) Render(_ context.Context, id, source string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte(fmt.Sprintf(`<svg id="%s">%d</svg>`, id, len(source))), nil
}

func TestCachedRenderer(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingRenderer{}
	r := NewCachedRenderer(inner, "fake", fc, nil, 0, nil)

	first, err := r.Render(ctx, "diagram-1", "flowchart TD")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	second, err := r.Render(ctx, "diagram-2", "flowchart TD")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("inner renderer called %d times, want 1", inner.calls)
	}
	if !strings.Contains(string(first), `id="diagram-1"`) {
		t.Errorf("first render = %s, want id diagram-1", first)
	}
	if !strings.Contains(string(second), `id="diagram-2"`) {
		t.Errorf("cached render = %s, want id diagram-2", second)
	}

	if _, err := r.Render(ctx, "diagram-3", "graph LR"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("different source should miss, inner calls = %d", inner.calls)
	}
}

func TestCachedRenderer_DoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	inner := &countingRenderer{err: fmt.Errorf("boom")}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewCachedRenderer(inner, "fake", fc, nil, 0, nil)

	for i := 0; i < 2; i++ {
		if _, err := r.Render(ctx, "d", "flowchart TD"); err == nil {
			t.Fatal("Render() should fail")
		}
	}
	if inner.calls != 2 {
		t.Errorf("failures should not be cached, inner calls = %d", inner.calls)
	}
}

func TestCachedRenderer_ValidatesFirst(t *testing.T) {
	inner := &countingRenderer{}
	r := NewCachedRenderer(inner, "fake", cache.NewNullCache(), nil, 0, nil)
	if _, err := r.Render(context.Background(), "d", "hello"); err == nil {
		t.Fatal("invalid source should fail")
	}
	if inner.calls != 0 {
		t.Error("invalid source must never reach the backend")
	}
}

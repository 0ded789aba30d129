package observability

import (
	"context"
	"testing"
	"time"
)

type countingRenderHooks struct {
	NoopRenderHooks
	parseStarts    int
	renderComplete int
}

func (h *countingRenderHooks) OnParseStart(context.Context, string) {
	h.parseStarts++
}

func (h *countingRenderHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {
	h.renderComplete++
}

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.hits++
}

func TestHookRegistration(t *testing.T) {
	t.Cleanup(Reset)

	rh := &countingRenderHooks{}
	ch := &countingCacheHooks{}
	SetRenderHooks(rh)
	SetCacheHooks(ch)

	ctx := context.Background()
	Render().OnParseStart(ctx, "file.excalidraw")
	Render().OnRenderComplete(ctx, "svg", []string{"svg"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "artifact")

	if rh.parseStarts != 1 {
		t.Errorf("parse starts = %d, want 1", rh.parseStarts)
	}
	if rh.renderComplete != 1 {
		t.Errorf("render completes = %d, want 1", rh.renderComplete)
	}
	if ch.hits != 1 {
		t.Errorf("cache hits = %d, want 1", ch.hits)
	}
}

func TestNilRegistrationKeepsExisting(t *testing.T) {
	t.Cleanup(Reset)

	rh := &countingRenderHooks{}
	SetRenderHooks(rh)
	SetRenderHooks(nil)

	Render().OnParseStart(context.Background(), "x")
	if rh.parseStarts != 1 {
		t.Error("nil registration replaced the existing hooks")
	}
}

func TestReset(t *testing.T) {
	SetRenderHooks(&countingRenderHooks{})
	SetCacheHooks(&countingCacheHooks{})
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("render hooks not reset to noop")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("cache hooks not reset to noop")
	}
}

package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/grid"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGenerateHooks{}
	g.OnGenerateStart(ctx, grid.DefaultParams())
	g.OnGenerateComplete(ctx, grid.DefaultParams(), 49, time.Millisecond, nil)

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "svg", 49)
	r.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Generate().(NoopGenerateHooks); !ok {
		t.Error("Generate() should return NoopGenerateHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	custom := &countingHooks{}
	SetGenerateHooks(custom)
	SetCacheHooks(custom)
	if Generate() != custom {
		t.Error("SetGenerateHooks should set custom hooks")
	}
	if Cache() != custom {
		t.Error("SetCacheHooks should set custom hooks")
	}

	SetGenerateHooks(nil)
	if Generate() != custom {
		t.Error("SetGenerateHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Generate().(NoopGenerateHooks); !ok {
		t.Error("Reset should restore NoopGenerateHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore NoopCacheHooks")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	h.Register()

	ctx := context.Background()
	Generate().OnGenerateComplete(ctx, grid.DefaultParams(), 49, time.Millisecond, nil)
	Render().OnRenderStart(ctx, "svg", 49)
	Cache().OnCacheMiss(ctx, "artifact")

	out := buf.String()
	for _, want := range []string{"generate complete", "emitted=49", "render start", "format=svg", "cache miss"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type countingHooks struct {
	starts, hits int
}

func (h *countingHooks) OnGenerateStart(context.Context, grid.Params) { h.starts++ }
func (h *countingHooks) OnGenerateComplete(context.Context, grid.Params, int, time.Duration, error) {
}
func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     {}
func (h *countingHooks) OnCacheSet(context.Context, string, int) {}

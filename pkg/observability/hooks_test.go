package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutPass("grid", 4, 10, time.Millisecond)
	l.OnLayoutError("grid", errors.New("detached"))
	l.OnResizeEvent("grid", true)

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "gallery.toml")
	p.OnLoadComplete(ctx, "gallery.toml", 12, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "render", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "req", "POST", "/v1/layout")
	s.OnResponse(ctx, "req", "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

type testLayoutHooks struct{ NoopLayoutHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }

func TestRegisterInstallsEveryKind(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	Register(h)

	if Layout() != LayoutHooks(h) || Pipeline() != PipelineHooks(h) ||
		Cache() != CacheHooks(h) || Server() != ServerHooks(h) {
		t.Fatal("Register should install LogHooks for every kind")
	}

	ctx := context.Background()
	Layout().OnLayoutPass("grid-1", 4, 6, time.Millisecond)
	Cache().OnCacheMiss(ctx, "layout")
	Pipeline().OnRenderComplete(ctx, "svg", 0, 0, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"layout pass", "grid=grid-1", "cache miss", "render failed", "err=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRegisterPartial(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testCacheHooks{}
	Register(custom)
	if Cache() != CacheHooks(custom) {
		t.Error("Register should install cache hooks")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Register should leave other kinds alone")
	}
}

package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "titanic.csv")
	p.OnLoadComplete(ctx, "titanic.csv", 2201, time.Second, nil)
	p.OnBuildStart(ctx, []string{"Class", "Sex"}, 2201)
	p.OnBuildComplete(ctx, []string{"Class", "Sex"}, 13, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "model")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout", "req-1")
	h.OnResponse(ctx, "POST", "/v1/layout", "req-1", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/layout", "req-1", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

type recordingPipelineHooks struct {
	NoopPipelineHooks
	builds []int
}

func (r *recordingPipelineHooks) OnBuildComplete(_ context.Context, _ []string, nodes int, _ time.Duration, _ error) {
	r.builds = append(r.builds, nodes)
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Pipeline().OnBuildComplete(context.Background(), []string{"A"}, 3, time.Millisecond, nil)

	if len(rec.builds) != 1 || rec.builds[0] != 3 {
		t.Errorf("builds = %v, want [3]", rec.builds)
	}
}

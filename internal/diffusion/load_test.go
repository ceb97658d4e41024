package diffusion

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDisabled(t *testing.T) {
	_, err := Load(context.Background(), Options{Enabled: false, Endpoint: "http://x", Model: testModel})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadWithoutEndpoint(t *testing.T) {
	_, err := Load(context.Background(), Options{Enabled: true, Model: testModel})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Model not found"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := Load(context.Background(), Options{Enabled: true, Endpoint: srv.URL, Model: testModel, Device: DeviceCPU})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Model not found")
}

func TestLoadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status/"+testModel, r.URL.Path)
		_ = json.NewEncoder(w).Encode(StatusResponse{Loaded: true, State: "Loaded", ComputeType: "gpu"})
	}))
	t.Cleanup(srv.Close)

	handle, err := Load(context.Background(), Options{Enabled: true, Endpoint: srv.URL, Model: testModel, Device: DeviceCUDA, MaxConcurrency: 2})
	require.NoError(t, err)
	require.Equal(t, testModel, handle.Model)
	require.Equal(t, DeviceCUDA, handle.Device)
	require.IsType(t, &Serialized{}, handle.Pipeline)
}

func TestResolveDevice(t *testing.T) {
	require.Equal(t, DeviceCUDA, ResolveDevice("CUDA"))
	require.Equal(t, DeviceCPU, ResolveDevice("cpu"))

	t.Setenv("CUDA_VISIBLE_DEVICES", "0")
	require.Equal(t, DeviceCUDA, ResolveDevice(DeviceAuto))

	t.Setenv("CUDA_VISIBLE_DEVICES", "-1")
	require.Equal(t, DeviceCPU, ResolveDevice(DeviceAuto))
}

type blockingPipeline struct {
	current atomic.Int32
	peak    atomic.Int32
	release chan struct{}
}

func (b *blockingPipeline) Generate(ctx context.Context, params Params) (image.Image, error) {
	n := b.current.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	defer b.current.Add(-1)
	<-b.release
	return image.NewRGBA(image.Rect(0, 0, params.Width, params.Height)), nil
}

func TestSerializedBoundsConcurrency(t *testing.T) {
	inner := &blockingPipeline{release: make(chan struct{})}
	s := NewSerialized(inner, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Generate(context.Background(), Params{Prompt: "p", Width: 1, Height: 1})
			if err != nil {
				t.Errorf("Generate: %v", err)
			}
		}()
	}

	require.Eventually(t, func() bool { return inner.current.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(inner.release)
	wg.Wait()

	require.LessOrEqual(t, inner.peak.Load(), int32(2))
}

func TestSerializedHonorsContextWhileWaiting(t *testing.T) {
	inner := &blockingPipeline{release: make(chan struct{})}
	s := NewSerialized(inner, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Generate(context.Background(), Params{Prompt: "hold", Width: 1, Height: 1})
	}()
	require.Eventually(t, func() bool { return inner.current.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Generate(ctx, Params{Prompt: "wait", Width: 1, Height: 1})
	require.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)

	close(inner.release)
	<-done
}

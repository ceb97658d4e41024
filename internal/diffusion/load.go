package diffusion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-imager/internal/shared/telemetry"
)

// Compute devices.
const (
	DeviceAuto = "auto"
	DeviceCUDA = "cuda"
	DeviceCPU  = "cpu"
)

// Options configures Load.
type Options struct {
	Enabled        bool
	Endpoint       string
	Model          string
	APIToken       string
	Device         string
	Timeout        time.Duration
	MaxConcurrency int
	ProbeTimeout   time.Duration
}

// Handle is a loaded pipeline together with the settings it was loaded with.
type Handle struct {
	Pipeline Pipeline
	Model    string
	Device   string
}

// Load builds the pipeline once at startup and verifies the model is
// reachable. Callers treat any error as "run without a pipeline".
func Load(ctx context.Context, opts Options) (*Handle, error) {
	if !opts.Enabled {
		return nil, fmt.Errorf("%w: disabled", ErrNotConfigured)
	}
	device := ResolveDevice(opts.Device)
	client, err := NewClient(opts.Endpoint, opts.Model, opts.APIToken, device, opts.Timeout)
	if err != nil {
		return nil, err
	}

	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if _, err := client.Status(probeCtx); err != nil {
		return nil, fmt.Errorf("load model %s: %w", client.Model(), err)
	}

	telemetry.Info("diffusion.loaded", map[string]any{
		"model":           client.Model(),
		"device":          device,
		"max_concurrency": maxOf(opts.MaxConcurrency, 1),
	})
	return &Handle{
		Pipeline: NewSerialized(client, int64(maxOf(opts.MaxConcurrency, 1))),
		Model:    client.Model(),
		Device:   device,
	}, nil
}

// ResolveDevice maps "auto" to cuda when an NVIDIA accelerator is visible to
// this host and cpu otherwise; explicit choices pass through.
func ResolveDevice(requested string) string {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case DeviceCUDA:
		return DeviceCUDA
	case DeviceCPU:
		return DeviceCPU
	}
	if acceleratorPresent() {
		return DeviceCUDA
	}
	return DeviceCPU
}

var nvidiaDeviceGlob = "/dev/nvidia[0-9]*"

func acceleratorPresent() bool {
	if v, ok := os.LookupEnv("CUDA_VISIBLE_DEVICES"); ok {
		v = strings.TrimSpace(v)
		return v != "" && v != "-1" && !strings.EqualFold(v, "none")
	}
	matches, err := filepath.Glob(nvidiaDeviceGlob)
	return err == nil && len(matches) > 0
}

func maxOf(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

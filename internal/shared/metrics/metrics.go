package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	renderStartedTotal   atomic.Uint64
	renderCompletedTotal atomic.Uint64
	renderFailedTotal    atomic.Uint64
	renderBlendedTotal   atomic.Uint64

	renderDuration    = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 5000, 30000, 120000})
	diffusionDuration = newHistogram([]float64{500, 1000, 2500, 5000, 10000, 30000, 60000, 120000})
)

// IncRenderStarted increments the started counter.
func IncRenderStarted() {
	renderStartedTotal.Add(1)
}

// IncRenderCompleted increments the completed counter.
func IncRenderCompleted() {
	renderCompletedTotal.Add(1)
}

// IncRenderFailed increments the failed counter.
func IncRenderFailed() {
	renderFailedTotal.Add(1)
}

// IncRenderBlended counts renders that were blended with a generated background.
func IncRenderBlended() {
	renderBlendedTotal.Add(1)
}

// ObserveRenderDurationMs records an end-to-end render duration in milliseconds.
func ObserveRenderDurationMs(value float64) {
	renderDuration.Observe(clamp(value))
}

// ObserveDiffusionDurationMs records a single inference call duration in milliseconds.
func ObserveDiffusionDurationMs(value float64) {
	diffusionDuration.Observe(clamp(value))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_render_started_total", "Total resume renders started", renderStartedTotal.Load())
	writeCounter(&buf, "resume_render_completed_total", "Total resume renders completed", renderCompletedTotal.Load())
	writeCounter(&buf, "resume_render_failed_total", "Total resume renders failed", renderFailedTotal.Load())
	writeCounter(&buf, "resume_render_blended_total", "Total renders blended with a generated background", renderBlendedTotal.Load())
	writeHistogram(&buf, "resume_render_duration_ms", "Resume render duration in milliseconds", renderDuration.Snapshot())
	writeHistogram(&buf, "diffusion_generate_duration_ms", "Diffusion inference duration in milliseconds", diffusionDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket whose bound covers it; Render
// accumulates counts into cumulative le buckets.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

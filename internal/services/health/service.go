package health

const (
	PipelineReady       = "ready"
	PipelineUnavailable = "unavailable"
)

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Pipeline string `json:"pipeline"`
	Model    string `json:"model,omitempty"`
	Device   string `json:"device,omitempty"`
}

// Service reports process liveness and whether backgrounds are generated.
type Service struct {
	ready  bool
	model  string
	device string
}

// NewService constructs a health service. ready reports whether a diffusion
// pipeline was loaded at startup.
func NewService(ready bool, model, device string) *Service {
	return &Service{ready: ready, model: model, device: device}
}

// Status returns the health payload. The service is healthy without a
// pipeline; it then serves text-only renders.
func (s *Service) Status() Status {
	st := Status{OK: true, Pipeline: PipelineUnavailable}
	if s == nil || !s.ready {
		return st
	}
	st.Pipeline = PipelineReady
	st.Model = s.model
	st.Device = s.device
	return st
}

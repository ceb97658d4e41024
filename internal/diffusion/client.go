package diffusion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resume-imager/internal/shared/metrics"
	"resume-imager/internal/shared/telemetry"
)

const maxResponseBytes = 64 << 20

// Client implements Pipeline against a Hugging Face style inference API:
// POST {endpoint}/models/{model} answers with image bytes or a JSON body.
type Client struct {
	endpoint   string
	model      string
	apiToken   string
	device     string
	httpClient *http.Client
}

// NewClient constructs a Client. timeout bounds each HTTP call.
func NewClient(endpoint, model, apiToken, device string, timeout time.Duration) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("diffusion endpoint %q: %w", endpoint, err)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("diffusion model is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		model:    strings.TrimSpace(model),
		apiToken: strings.TrimSpace(apiToken),
		device:   device,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// Device returns the compute device hint sent with each request.
func (c *Client) Device() string { return c.device }

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
	Options    generateOptions    `json:"options"`
}

type generateParameters struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

type generateOptions struct {
	WaitForModel bool   `json:"wait_for_model"`
	Device       string `json:"device,omitempty"`
}

type generateResponse struct {
	Images []struct {
		B64JSON string `json:"b64_json"`
	} `json:"images"`
	Error string `json:"error,omitempty"`
}

// StatusResponse is the model status returned by the probe endpoint.
type StatusResponse struct {
	Loaded      bool   `json:"loaded"`
	State       string `json:"state"`
	ComputeType string `json:"compute_type"`
	Error       string `json:"error,omitempty"`
}

// Generate requests one image for params.
func (c *Client) Generate(ctx context.Context, params Params) (image.Image, error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return nil, fmt.Errorf("diffusion prompt is empty")
	}
	payload, err := json.Marshal(generateRequest{
		Inputs: params.Prompt,
		Parameters: generateParameters{
			Width:  params.Width,
			Height: params.Height,
		},
		Options: generateOptions{
			WaitForModel: true,
			Device:       c.device,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL("models"), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, application/json")
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveDiffusionDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("diffusion request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read diffusion response: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("diffusion http status %d: %s", resp.StatusCode, errorMessage(mediaType, body))
	}

	if strings.HasPrefix(mediaType, "image/") {
		return decodeImage(body)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Some servers omit the content type; try the bytes as an image.
		if img, imgErr := decodeImage(body); imgErr == nil {
			return img, nil
		}
		return nil, fmt.Errorf("diffusion response parse: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("diffusion error: %s", parsed.Error)
	}
	if len(parsed.Images) == 0 || parsed.Images[0].B64JSON == "" {
		return nil, ErrEmptyResult
	}
	raw, err := base64.StdEncoding.DecodeString(stripDataURI(parsed.Images[0].B64JSON))
	if err != nil {
		return nil, fmt.Errorf("diffusion image base64: %w", err)
	}
	return decodeImage(raw)
}

// Status probes the model status endpoint.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL("status"), nil)
	if err != nil {
		return StatusResponse{}, err
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return StatusResponse{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StatusResponse{}, fmt.Errorf("diffusion status http %d: %s", resp.StatusCode, errorMessage("application/json", body))
	}
	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return StatusResponse{}, fmt.Errorf("diffusion status parse: %w", err)
	}
	if status.Error != "" {
		return StatusResponse{}, fmt.Errorf("diffusion status error: %s", status.Error)
	}
	telemetry.Info("diffusion.status", map[string]any{
		"model":        c.model,
		"loaded":       status.Loaded,
		"state":        status.State,
		"compute_type": status.ComputeType,
	})
	return status, nil
}

func (c *Client) modelURL(kind string) string {
	return c.endpoint + "/" + kind + "/" + c.model
}

func (c *Client) authorize(req *http.Request) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

func errorMessage(mediaType string, body []byte) string {
	if mediaType == "application/json" || json.Valid(body) {
		var parsed struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
			return parsed.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		return "empty body"
	}
	return msg
}

func stripDataURI(s string) string {
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx != -1 {
			return s[idx+1:]
		}
	}
	return s
}

var _ Pipeline = (*Client)(nil)

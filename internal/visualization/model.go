package visualization

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/bouquet-backend/pkg/config"
)

const responseBodyReadLimit int64 = 1024

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Model is the text-to-image pipeline behind the gateway. Load is called at
// most once per process.
type Model interface {
	Load(ctx context.Context) error
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// HTTPModel talks to a diffusion inference server that exposes /load and
// /generate JSON endpoints.
type HTTPModel struct {
	httpClient *http.Client
	baseURL    string
	model      string
	width      int
	height     int
	steps      int
	guidance   float64
}

// ModelOption configures optional client behavior.
type ModelOption func(*HTTPModel)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ModelOption {
	return func(m *HTTPModel) {
		if client != nil {
			m.httpClient = client
		}
	}
}

func NewHTTPModel(cfg config.VisualizationConfig, opts ...ModelOption) (*HTTPModel, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.ModelURL), "/")
	if base == "" {
		return nil, errors.New("visualization model url is required")
	}
	m := &HTTPModel{
		// requests are bounded by the gateway's contexts, not a client timeout
		httpClient: &http.Client{Transport: http.DefaultTransport},
		baseURL:    base,
		model:      cfg.ModelName,
		width:      cfg.Width,
		height:     cfg.Height,
		steps:      cfg.Steps,
		guidance:   cfg.GuidanceScale,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

type loadRequest struct {
	Model string `json:"model"`
}

type generateRequest struct {
	Model             string  `json:"model"`
	Prompt            string  `json:"prompt"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

type generateResponse struct {
	Image string `json:"image"`
}

// Load asks the server to bring the weights into memory.
func (m *HTTPModel) Load(ctx context.Context) error {
	resp, err := m.post(ctx, "load", loadRequest{Model: m.model})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
	return nil
}

// Generate returns PNG bytes for the prompt.
func (m *HTTPModel) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := m.post(ctx, "generate", generateRequest{
		Model:             m.model,
		Prompt:            prompt,
		Width:             m.width,
		Height:            m.height,
		NumInferenceSteps: m.steps,
		GuidanceScale:     m.guidance,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	raw := strings.TrimPrefix(body.Image, "data:image/png;base64,")
	image, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	if !bytes.HasPrefix(image, pngSignature) {
		return nil, errors.New("model returned a non-png image")
	}
	return image, nil
}

func (m *HTTPModel) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/"+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s request after %s: %w", path, time.Since(started).Round(time.Millisecond), err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s request failed: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	generateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eduai",
		Subsystem: "ollama",
		Name:      "generate_duration_seconds",
		Help:      "Duration of Ollama generation requests",
	}, []string{"model"})

	generateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eduai",
		Subsystem: "ollama",
		Name:      "generate_failures_total",
		Help:      "Number of failed Ollama generation requests",
	}, []string{"model"})
)

// DefaultTimeout bounds a single generation request against the backend.
const DefaultTimeout = 120 * time.Second

// BackendError represents a communication failure with the inference backend:
// the server was unreachable, timed out, or returned a non-success status.
type BackendError struct {
	Cause error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("error communicating with ollama: %v", e.Cause)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Config defines configuration options for the Ollama client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to an Ollama-compatible inference backend over HTTP.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewClient builds a client for the configured inference backend.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama base url is required")
	}

	if cfg.Model == "" {
		cfg.Model = "llama3:8b"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tracer:     otel.Tracer("github.com/eduai-companion/go-api/pkg/ai"),
		logger:     cfg.Logger.With().Str("component", "ollama_client").Logger(),
	}, nil
}

// Model returns the model identifier requests are issued against.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a single non-streaming generation request and returns the raw
// model output. Any transport or protocol failure is reported as a
// *BackendError; retry policy belongs to the caller.
func (c *Client) Generate(parent context.Context, prompt, system string) (string, error) {
	ctx, span := c.tracer.Start(parent, "ollama.generate", trace.WithAttributes(
		attribute.String("model", c.model),
	))
	defer span.End()

	payload := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	generateDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", c.fail(span, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.fail(span, fmt.Errorf("backend returned status %d", resp.StatusCode))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", c.fail(span, fmt.Errorf("decode generate response: %w", err))
	}

	return decoded.Response, nil
}

func (c *Client) fail(span trace.Span, cause error) error {
	err := &BackendError{Cause: cause}
	generateFailures.WithLabelValues(c.model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error().Err(cause).Msg("generation request failed")
	return err
}

package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/saturnino-fabrica-de-software/lookout/internal/domain"
)

// Config holds the configuration for the vision engine client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:5001",
		Timeout: 10 * time.Second,
	}
}

// Client is the HTTP client for the vision engine. It issues exactly one
// request per Classify call; the engine is best-effort infrastructure, so
// there is no retry and failures surface to the caller.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new vision engine client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Classify sends the frame to POST /process_image and decodes the detection
// result.
func (c *Client) Classify(ctx context.Context, image []byte, filename, contentType string) (*domain.DetectionResult, error) {
	body, formContentType, err := encodeFrame(image, filename, contentType)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("encode frame: %w", err))
	}

	url := c.config.BaseURL + "/process_image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", formContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrDetectorUnavailable.WithError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrDetectorResponse.WithError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return nil, domain.ErrDetectorResponse.WithError(
			fmt.Errorf("vision engine returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	var result domain.DetectionResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, domain.ErrDetectorResponse.WithError(fmt.Errorf("decode response: %w", err))
	}

	return &result, nil
}

// ScanFaces asks the engine to run a face scan on its live feed.
func (c *Client) ScanFaces(ctx context.Context) (json.RawMessage, error) {
	return c.trigger(ctx, "/detect_faces")
}

// WatchParcel switches the engine into parcel-watch mode so it tracks the
// package currently in view.
func (c *Client) WatchParcel(ctx context.Context) (json.RawMessage, error) {
	return c.trigger(ctx, "/monitor_parcel")
}

// trigger posts a bodyless mode switch and relays the engine's reply.
func (c *Client) trigger(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, domain.ErrInternal.WithError(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrDetectorUnavailable.WithError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrDetectorResponse.WithError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return nil, domain.ErrDetectorResponse.WithError(
			fmt.Errorf("vision engine returned status %d: %s", resp.StatusCode, string(respBody)))
	}

	if !json.Valid(respBody) {
		return nil, domain.ErrDetectorResponse.WithError(errors.New("engine reply is not json"))
	}

	return json.RawMessage(respBody), nil
}

// encodeFrame builds the multipart form the engine expects: a single "image"
// part carrying the frame's declared content type.
func encodeFrame(image []byte, filename, contentType string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

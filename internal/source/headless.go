package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Renderer — внешняя возможность «получить DOM после выполнения JavaScript».
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// HTTPRenderer обращается к headless-сервису по HTTP:
// POST {"url": ...} на Endpoint, в ответ — HTML отрисованной страницы.
type HTTPRenderer struct {
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
	MaxBytes int64
}

// NewHTTPRenderer создаёт рендерер; пустой endpoint означает «рендерер не настроен» и даёт nil.
func NewHTTPRenderer(endpoint string, timeout time.Duration) Renderer {
	if endpoint == "" {
		return nil
	}
	return &HTTPRenderer{
		Endpoint: endpoint,
		Client:   &http.Client{},
		Timeout:  timeout,
		MaxBytes: defaultMaxBody,
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	const op = "source.HTTPRenderer.Render"

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]string{"url": pageURL})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/html")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s: %w: %d", op, ErrStatus, resp.StatusCode)
	}

	limit := r.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	html, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", fmt.Errorf("%s: read: %w", op, err)
	}

	return string(html), nil
}

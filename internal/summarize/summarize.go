// summarize вызывает внешнюю модель для краткого изложения статьи.
//
// Модель — внешний коллаборатор: пакет определяет только способ вызова
// (OpenAI-совместимый chat/completions), повтор с экспоненциальной задержкой
// и детерминированный шаблон на случай отказа.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/news-radar/internal/normalize"
)

// Summarizer возвращает краткое изложение текста.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// ErrEmptyAnswer — модель ответила без текста.
var ErrEmptyAnswer = errors.New("empty completion")

const systemPrompt = "请用中文总结以下内容，控制在100字以内，突出重点信息。"

// Config — параметры подключения к модели.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxInput  int
	MaxTokens int
}

// StatusError — модель ответила не-2xx статусом.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Temporary сообщает, имеет ли смысл повторять запрос.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client — клиент OpenAI-совместимого API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient создаёт клиента; hc == nil означает http.DefaultClient.
func NewClient(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = 3000
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 200
	}
	return &Client{cfg: cfg, http: hc}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize выполняет один запрос к модели без повторов.
func (c *Client) Summarize(ctx context.Context, title, content string) (string, error) {
	const op = "summarize.Client.Summarize"

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("标题：%s\n\n内容：%s", title, normalize.Truncate(content, c.cfg.MaxInput))},
		},
		MaxTokens: c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%s: %w", op, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	}

	var parsed chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%s: decode: %w", op, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyAnswer)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// Template — детерминированное summary из заголовка и начала текста.
func Template(title, content string) string {
	title = strings.TrimSpace(title)
	lead := normalize.Truncate(strings.Join(strings.Fields(content), " "), 60)
	if lead == "" {
		return fmt.Sprintf("这篇资讯围绕「%s」展开。建议点击标题查看原文。", title)
	}
	return fmt.Sprintf("这篇资讯围绕「%s」展开，介绍了%s等关键内容。建议点击标题查看原文。", title, lead)
}

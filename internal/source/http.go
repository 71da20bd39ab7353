package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/news-radar/internal/pkg/log"
)

const (
	acceptFeed = "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8"
	acceptJSON = "application/json, */*;q=0.8"
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// domesticSuffixes — хосты, к которым ходим напрямую, минуя прокси.
var domesticSuffixes = []string{
	".cn", "oschina.net", "v2ex.com", "leiphone.com", "tmtpost.com", "36kr.com",
	"jiqizhixin.com", "qbitai.com", "zhidx.com", "hellogithub.com", "csdn.net",
	"segmentfault.com",
}

// IsDomestic сообщает, что хост относится к внутренним (китайским) сайтам.
func IsDomestic(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, s := range domesticSuffixes {
		if strings.HasPrefix(s, ".") {
			if strings.HasSuffix(host, s) {
				return true
			}
			continue
		}
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// ProxyFunc возвращает функцию выбора прокси для http.Transport:
// внутренние хосты идут напрямую, остальные — через proxy (или прокси из окружения, если proxy пуст).
func ProxyFunc(proxy string) (func(*http.Request) (*url.URL, error), error) {
	var fixed *url.URL
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("source.ProxyFunc: %w", err)
		}
		fixed = u
	}

	return func(r *http.Request) (*url.URL, error) {
		if IsDomestic(r.URL.Hostname()) {
			return nil, nil
		}
		if fixed != nil {
			return fixed, nil
		}
		return http.ProxyFromEnvironment(r)
	}, nil
}

// NewHTTPClient собирает клиент для исходящих запросов с выбором прокси по хосту.
// Общий таймаут не задаётся: его ограничивает контекст источника.
func NewHTTPClient(proxy string) (*http.Client, error) {
	proxyFn, err := ProxyFunc(proxy)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy:                 proxyFn,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	return &http.Client{Transport: transport}, nil
}

// get выполняет GET и возвращает тело не длиннее opts.MaxBodyBytes.
func (f *Fetcher) get(ctx context.Context, target, accept string) ([]byte, error) {
	const op = "source.get"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,zh-CN;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		log.From(ctx).Debug("http_error",
			slog.String("op", op),
			slog.String("url", target),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%s: %w: %d", op, ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", op, err)
	}

	return body, nil
}

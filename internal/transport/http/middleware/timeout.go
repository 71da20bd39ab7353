package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/news-radar/internal/pkg/log"
)

// Timeout ограничивает обработку запроса сроком d, если у контекста ещё нет дедлайна.
// Запрос, упёршийся в дедлайн, отмечается записью "request_deadline_exceeded";
// сам ответ (504) формирует обработчик по ошибке сервиса.
// d <= 0 отключает ограничение.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logctx.From(ctx).Warn("request_deadline_exceeded",
					slog.String("route", routePattern(r)),
					slog.Duration("timeout", d),
				)
			}
		})
	}
}

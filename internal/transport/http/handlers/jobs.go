package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/news-radar/internal/models"
	logctx "github.com/pribylovaa/news-radar/internal/pkg/log"
	apierrors "github.com/pribylovaa/news-radar/internal/transport/http/errors"
)

// ssePrefix — пространство имён событий регенерации summary.
const ssePrefix = "summaries-update:"

// RunCycle запускает внеплановый цикл загрузки и ждёт его завершения.
func (h *Handlers) RunCycle(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.RunCycle(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CycleResponse{
		InsertedCount:     res.Inserted,
		FailedSourceCount: res.FailedSources,
	})
}

func (h *Handlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Cleanup(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CleanupResponse{
		Archived: res.Archived,
		Purged:   res.Purged,
		Trimmed:  res.Trimmed,
	})
}

// RegenerateSummaries отдаёт прогресс пакета потоком Server-Sent Events:
// summaries-update:start, summaries-update:progress (на каждый материал), summaries-update:complete.
//
// Ошибки до первого события (ИИ не настроен, пакет уже идёт) отдаются обычным JSON-конвертом.
// Закрытие соединения клиентом отменяет пакет.
func (h *Handlers) RegenerateSummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)
	started := false

	send := func(p models.SummaryProgress) {
		if !started {
			hdr := w.Header()
			hdr.Set("Content-Type", "text/event-stream")
			hdr.Set("Cache-Control", "no-cache")
			hdr.Set("Connection", "keep-alive")
			hdr.Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
			started = true
		}

		payload := progressFromModel(p)
		if p.Kind == models.ProgressComplete && ctx.Err() != nil {
			payload.Canceled = true
		}
		data, _ := json.Marshal(payload)

		if _, err := fmt.Fprintf(w, "event: %s%s\ndata: %s\n\n", ssePrefix, p.Kind, data); err != nil {
			return
		}
		_ = rc.Flush()
	}

	_, err := h.Service.RegenerateSummaries(ctx, send)
	if err != nil && !started {
		apierrors.WriteError(w, r, err)
		return
	}
	if err != nil {
		logctx.From(ctx).Info("summaries_stream_stopped",
			slog.String("op", "handlers.RegenerateSummaries"),
			slog.String("err", err.Error()),
		)
	}
}

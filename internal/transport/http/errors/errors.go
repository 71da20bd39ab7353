// errors стандартизирует ответы об ошибках HTTP-слоя news-radar.
// На вход он принимает ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - стабильный машиночитаемый код и краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: сентинелы internal/service.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/news-radar/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

// table — маппинг сентинелов в порядке проверки:
//   - ErrInvalidArgument -> 400
//   - ErrNotFound -> 404
//   - ErrAlreadyExists -> 409 (материал с таким URL уже есть)
//   - ErrCycleRunning / ErrBatchRunning -> 409 (операция уже выполняется)
//   - ErrAINotConfigured -> 412
//   - ErrUnparsable -> 422
//   - ErrUnreachable -> 502
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504
var table = []mapping{
	{service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{service.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{service.ErrAlreadyExists, http.StatusConflict, "already_exists", "already exists"},
	{service.ErrCycleRunning, http.StatusConflict, "cycle_running", "ingestion cycle already running"},
	{service.ErrBatchRunning, http.StatusConflict, "batch_running", "summary regeneration already running"},
	{service.ErrAINotConfigured, http.StatusPreconditionFailed, "ai_not_configured", "ai base url, key and model are required"},
	{service.ErrUnparsable, http.StatusUnprocessableEntity, "unparsable", "page has no extractable article"},
	{service.ErrUnreachable, http.StatusBadGateway, "unreachable", "page could not be fetched"},
	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - err без известного сентинела - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, m := range table {
			if errors.Is(err, m.target) {
				return m.status, ErrorResponse{Error: APIError{Code: m.code, Message: m.message}}
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

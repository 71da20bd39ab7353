package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/news-radar/internal/models"
	apierrors "github.com/pribylovaa/news-radar/internal/transport/http/errors"
)

func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) {
	var (
		opts models.ListOptions
		err  error
	)

	if opts.Page, err = queryInt(r, "page"); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if opts.PageSize, err = queryInt(r, "page_size"); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if opts.OnlyBookmarked, err = queryBool(r, "bookmarked"); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if opts.IncludeArchived, err = queryBool(r, "archived"); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	opts.Category = models.Category(r.URL.Query().Get("category"))
	opts.SortBy = models.SortOrder(r.URL.Query().Get("sort"))

	page, err := h.Service.ListArticles(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ArticlePage{
		Items:    articlesFromModel(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *Handlers) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.ArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleFromModel(*a))
}

// Search — ранжированная выдача; from/to принимают RFC3339 или дату.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.SearchFilter{
		Category: models.Category(q.Get("category")),
		Source:   strings.TrimSpace(q.Get("source")),
	}
	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	items, err := h.Service.Search(r.Context(), q.Get("q"), filter)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articlesFromModel(items))
}

// ManualAdd — синхронное добавление материала по ссылке, 201 с созданным материалом.
func (h *Handlers) ManualAdd(w http.ResponseWriter, r *http.Request) {
	var req ManualAddRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	a, err := h.Service.ManualAdd(r.Context(), req.URL)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, articleFromModel(*a))
}

func (h *Handlers) SetBookmark(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Service.SetBookmark)
}

func (h *Handlers) SetRead(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Service.SetRead)
}

// toggle — общий разбор {"value":bool} для флагов материала.
func (h *Handlers) toggle(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, id string, value bool) error) {
	var req ToggleRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if req.Value == nil {
		apierrors.WriteError(w, r, invalidArgument("value is required"))
		return
	}

	if err := set(r.Context(), chi.URLParam(r, "id"), *req.Value); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RecordClick(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.RecordClick(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleFromModel(*a))
}

// SummarizeArticle — summary одного материала от модели. Ответ содержит обновлённый материал.
func (h *Handlers) SummarizeArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.SummarizeArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleFromModel(*a))
}

package maintenance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainyard/internal/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the maintenance endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/item/{itemId}", h.handleListForItem)
	r.Put("/status/{itemId}", h.handleUpdateStatus)
	r.Get("/{id}", h.handleGet)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var log Log
	if err := httpx.Decode(r, &log); err != nil {
		httpx.Error(w, r, err)
		return
	}

	saved, err := h.service.Create(r.Context(), &log)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, logs)
}

func (h *Handler) handleListForItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := httpx.IDParam(r, "itemId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	logs, err := h.service.ListForItem(r.Context(), itemID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, logs)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	itemID, err := httpx.IDParam(r, "itemId")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	status, err := httpx.DecodeStatus(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.UpdateItemStatus(r.Context(), itemID, status); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	log, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, log)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

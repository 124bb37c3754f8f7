package locomotive

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainyard/internal/httpx"
	"trainyard/internal/inventory"
	"trainyard/internal/maintenance"
)

// History supplies the maintenance logs shown with a single locomotive.
type History interface {
	ListForItem(ctx context.Context, itemID int64) ([]*maintenance.Log, error)
}

// Detail is a locomotive together with its maintenance history.
type Detail struct {
	*Locomotive
	MaintenanceLogs []*maintenance.Log `json:"maintenanceLogs"`
}

type Handler struct {
	service Service
	history History
}

// NewHandler builds the HTTP handler. history may be nil, in which case details carry no logs.
func NewHandler(service Service, history History) *Handler {
	return &Handler{service: service, history: history}
}

// Routes mounts the locomotive endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/search", h.handleSearch)
	r.Get("/manufacturer/{manufacturer}", h.handleByManufacturer)
	r.Get("/scale/{scale}", h.handleByScale)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Put("/{id}/status", h.handleSetStatus)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var l Locomotive
	if err := httpx.Decode(r, &l); err != nil {
		httpx.Error(w, r, err)
		return
	}

	saved, err := h.service.Create(r.Context(), &l)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, all)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFrom(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	results, err := h.service.Search(r.Context(), c)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results)
}

func (h *Handler) handleByManufacturer(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), Criteria{Manufacturer: chi.URLParam(r, "manufacturer")})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results.Results)
}

func (h *Handler) handleByScale(w http.ResponseWriter, r *http.Request) {
	scale, err := inventory.ParseScale(chi.URLParam(r, "scale"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	results, err := h.service.Search(r.Context(), Criteria{Scale: scale})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results.Results)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	detail := Detail{Locomotive: l, MaintenanceLogs: []*maintenance.Log{}}
	if h.history != nil {
		logs, err := h.history.ListForItem(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		detail.MaintenanceLogs = logs
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var l Locomotive
	if err := httpx.Decode(r, &l); err != nil {
		httpx.Error(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &l)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	status, err := httpx.DecodeStatus(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.SetStatus(r.Context(), id, status); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
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

func criteriaFrom(r *http.Request) (Criteria, error) {
	q := r.URL.Query()
	c := Criteria{
		Manufacturer: q.Get("manufacturer"),
		RoadName:     q.Get("road_name"),
		Query:        q.Get("q"),
	}
	var err error
	if c.Scale, err = inventory.ParseScale(q.Get("scale")); err != nil {
		return Criteria{}, err
	}
	if c.Status, err = inventory.ParseStatus(q.Get("status")); err != nil {
		return Criteria{}, err
	}
	if c.Type, err = inventory.ParseLocomotiveType(q.Get("type")); err != nil {
		return Criteria{}, err
	}
	if c.Page, err = httpx.PageParams(r); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

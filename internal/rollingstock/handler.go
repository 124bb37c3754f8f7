package rollingstock

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainyard/internal/httpx"
	"trainyard/internal/inventory"
	"trainyard/internal/maintenance"
)

// History supplies the maintenance logs shown with a single car.
type History interface {
	ListForItem(ctx context.Context, itemID int64) ([]*maintenance.Log, error)
}

// Detail is a car together with its maintenance history.
type Detail struct {
	*RollingStock
	AARDescription  string             `json:"aarDescription,omitempty"`
	MaintenanceLogs []*maintenance.Log `json:"maintenanceLogs"`
}

// AARTypeInfo describes one AAR code.
type AARTypeInfo struct {
	Code        inventory.AARType `json:"code"`
	Description string            `json:"description"`
}

type Handler struct {
	service Service
	history History
}

func NewHandler(service Service, history History) *Handler {
	return &Handler{service: service, history: history}
}

// Routes mounts the rolling stock endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/search", h.handleSearch)
	r.Get("/aar-types", h.handleAARTypes)
	r.Get("/manufacturer/{manufacturer}", h.handleByManufacturer)
	r.Get("/scale/{scale}", h.handleByScale)
	r.Get("/aar/{aarType}", h.handleByAARType)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Put("/{id}/status", h.handleSetStatus)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var rs RollingStock
	if err := httpx.Decode(r, &rs); err != nil {
		httpx.Error(w, r, err)
		return
	}

	saved, err := h.service.Create(r.Context(), &rs)
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
	h.search(w, r, c, true)
}

func (h *Handler) handleAARTypes(w http.ResponseWriter, r *http.Request) {
	codes := inventory.AARTypes()
	out := make([]AARTypeInfo, len(codes))
	for i, code := range codes {
		out[i] = AARTypeInfo{Code: code, Description: code.Description()}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleByManufacturer(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, Criteria{Manufacturer: chi.URLParam(r, "manufacturer")}, false)
}

func (h *Handler) handleByScale(w http.ResponseWriter, r *http.Request) {
	scale, err := inventory.ParseScale(chi.URLParam(r, "scale"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.search(w, r, Criteria{Scale: scale}, false)
}

func (h *Handler) handleByAARType(w http.ResponseWriter, r *http.Request) {
	aar, err := inventory.ParseAARType(chi.URLParam(r, "aarType"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.search(w, r, Criteria{AARType: aar}, false)
}

// search writes either the full Results envelope or just the matching records.
func (h *Handler) search(w http.ResponseWriter, r *http.Request, c Criteria, envelope bool) {
	results, err := h.service.Search(r.Context(), c)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if envelope {
		httpx.JSON(w, http.StatusOK, results)
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
	rs, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	detail := Detail{
		RollingStock:    rs,
		AARDescription:  rs.AARType.Description(),
		MaintenanceLogs: []*maintenance.Log{},
	}
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
	var rs RollingStock
	if err := httpx.Decode(r, &rs); err != nil {
		httpx.Error(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &rs)
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
	if c.AARType, err = inventory.ParseAARType(q.Get("aar_type")); err != nil {
		return Criteria{}, err
	}
	if c.Status, err = inventory.ParseStatus(q.Get("status")); err != nil {
		return Criteria{}, err
	}
	if c.Page, err = httpx.PageParams(r); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justyn/travelmap-api/internal/catalog"
)

type CatalogHandler struct {
	Repo *catalog.Repo
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.list)
	r.Get("/api/products/{id}", h.detail)
	r.Get("/api/bookings", h.bookings)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := queryPage(r)

	list, total, err := h.Repo.List(r.Context(), catalog.Filter{
		Keyword:  q.Get("keyword"),
		Type:     q.Get("type"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list products failed")
		return
	}
	writeData(w, pageData{List: list, Page: page, PageSize: pageSize, Total: total})
}

func (h *CatalogHandler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "get product failed")
		return
	}
	writeData(w, p)
}

func (h *CatalogHandler) bookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	btype := q.Get("type")
	if btype == "" {
		writeErr(w, http.StatusBadRequest, "type is required (HOTEL/TICKET)")
		return
	}
	page, pageSize := queryPage(r)

	list, total, err := h.Repo.Bookings(r.Context(), btype, q.Get("city"), page, pageSize)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "list bookings failed")
		return
	}
	writeData(w, pageData{List: list, Page: page, PageSize: pageSize, Total: total})
}

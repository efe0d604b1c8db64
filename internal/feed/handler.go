package feed

import (
	"net/http"
	"strconv"

	"dashboard/pkg/apperror"
	"dashboard/pkg/respond"
)

type Handler struct {
	Fetcher *Fetcher
}

func NewHandler(fetcher *Fetcher) *Handler {
	return &Handler{Fetcher: fetcher}
}

// Feed serves GET /rss?url=...&limit=N.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := DefaultLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			apperror.Write(w, apperror.Validation("Invalid limit: must be between 1 and "+strconv.Itoa(MaxLimit)))
			return
		}
		limit = n
	}

	items, err := h.Fetcher.Fetch(r.Context(), q.Get("url"), limit)
	if err != nil {
		apperror.Write(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

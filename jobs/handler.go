package jobs

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caderno/caderno/internal/platform/httpx"
)

// Handler exposes manual job triggers over HTTP.
type Handler struct {
	logger *slog.Logger
	client *Client
}

// NewHandler constructs the jobs handler.
func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, client: client}
}

// MountRoutes registers the job trigger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/api/jobs/effectuate", h.Effectuate)
}

// Effectuate enqueues an on-demand effectuation run. An optional asOf query
// parameter overrides the cutoff date.
func (h *Handler) Effectuate(w http.ResponseWriter, r *http.Request) {
	asOf := r.URL.Query().Get("asOf")
	if asOf != "" {
		if _, err := time.Parse("2006-01-02", asOf); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "asOf must be YYYY-MM-DD")
			return
		}
	}
	info, err := h.client.EnqueueEffectuate(r.Context(), asOf)
	if err != nil {
		h.logger.Error("enqueue effectuate", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"taskId": info.ID, "queue": info.Queue})
}

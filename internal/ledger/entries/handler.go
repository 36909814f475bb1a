package entries

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/caderno/caderno/internal/platform/httpx"
)

// Handler adapts the entry service to the JSON boundary.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	validator  *validator.Validate
	rateLimit  func(http.Handler) http.Handler
	statements singleflight.Group
}

// NewHandler constructs the entry handler. Statement builds are rate limited
// per client and concurrent identical requests are collapsed.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	limiter := httprate.Limit(30, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr, nil
		}
		return "ip:" + host, nil
	}))
	return &Handler{logger: logger, service: service, validator: validator.New(), rateLimit: limiter}
}

// MountRoutes registers the entry and statement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/api/entries", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/api/accounts/{id}/statement", h.Statement)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list entries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	view, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create entry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	view, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	status := StatusEffective
	switch r.URL.Query().Get("status") {
	case "", "effective":
	case "projected":
		status = StatusProjected
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "status must be effective or projected")
		return
	}
	key := strconv.FormatInt(id, 10) + ":" + string(status)
	result, err, _ := h.singleflightStatement(r.Context(), key, id, status)
	if err != nil {
		h.fail(w, "build statement", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) singleflightStatement(ctx context.Context, key string, id int64, status Status) ([]MovementView, error, bool) {
	resultChan := h.statements.DoChan(key, func() (interface{}, error) {
		return h.service.Statement(ctx, id, status)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		views, _ := res.Val.([]MovementView)
		return views, res.Err, res.Shared
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return Input{}, false
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return Input{}, false
	}
	return in, true
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}

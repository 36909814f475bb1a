package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caderno/caderno/internal/platform/httpx"
)

// Handler adapts the account service to the JSON boundary.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the account handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers the account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/counterparts", h.Counterparts)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/balance", h.Balance)
		r.Get("/{id}/editable-fields", h.EditableFields)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("view") == "tree" {
		tree, err := h.service.ListTree(r.Context())
		if err != nil {
			h.fail(w, "list accounts tree", err)
			return
		}
		httpx.JSON(w, http.StatusOK, tree)
		return
	}
	list, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list accounts", err)
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
		h.fail(w, "get account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create account", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	view, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update account", err)
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
		h.fail(w, "delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	balance, err := h.service.Balance(r.Context(), id)
	if err != nil {
		h.fail(w, "compute balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, balance)
}

func (h *Handler) EditableFields(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	fields, err := h.service.EditableFieldNames(r.Context(), id)
	if err != nil {
		h.fail(w, "editable fields", err)
		return
	}
	if fields == nil {
		fields = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accountId": id, "editableFields": fields})
}

func (h *Handler) Counterparts(w http.ResponseWriter, r *http.Request) {
	var side *Side
	switch r.URL.Query().Get("side") {
	case "credit":
		s := SideCredit
		side = &s
	case "debit":
		s := SideDebit
		side = &s
	case "":
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "side must be credit or debit")
		return
	}
	list, err := h.service.Counterparts(r.Context(), side)
	if err != nil {
		h.fail(w, "list counterparts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}

package accounts

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	_ "github.com/caderno/caderno/testing"
)

func newTestRouter(seed []Account, reader fakeEntryReader) chi.Router {
	svc, _ := newTestService(seed, reader)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(logger, svc).MountRoutes(r)
	return r
}

func TestHandlerListAccounts(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, len(fixtureAccounts()))
	require.Equal(t, "1", views[0].Code)
}

func TestHandlerTreeView(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts?view=tree", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var roots []TreeNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roots))
	require.Len(t, roots, 2)
	require.NotEmpty(t, roots[0].Children)
}

func TestHandlerCreateAccount(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	body, _ := json.Marshal(map[string]any{
		"parentId":    2,
		"description": "Payroll account",
		"type":        "ANALYTIC",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var view View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "1.1.3", view.Code)
}

func TestHandlerCreateRejectsMissingFields(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader([]byte(`{"description":"x"}`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateConflict(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	body, _ := json.Marshal(map[string]any{
		"description": "Bank",
		"type":        "ANALYTIC",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/accounts/2", bytes.NewReader(body)))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerDeleteNotFound(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/accounts/999", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerEditableFields(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts/1/editable-fields", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		AccountID      int64    `json:"accountId"`
		EditableFields []string `json:"editableFields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Empty(t, payload.EditableFields, "system-managed roots expose no editable fields")
}

func TestHandlerCounterpartsRejectsBadSide(t *testing.T) {
	router := newTestRouter(fixtureAccounts(), fakeEntryReader{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts/counterparts?side=both", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

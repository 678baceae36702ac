package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	handler := NewHandler(&mockRepository{}, zerolog.Nop())
	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")

	for _, path := range []string{"/runs", "/runs/abc"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if path == "/runs" {
			assert.Equal(t, http.StatusOK, w.Code, path)
		} else {
			// Route exists; the run does not
			assert.Equal(t, http.StatusNotFound, w.Code, path)
			assert.Contains(t, w.Body.String(), "Run not found")
		}
	}
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/simulation/defaults"},
		{http.MethodPost, "/simulation/run"},
		{http.MethodPost, "/sensitivity"},
		{http.MethodPost, "/recommendation"},
		{http.MethodGet, "/charts/capital"},
		{http.MethodPost, "/charts/capital"},
		{http.MethodGet, "/charts/sensitivity"},
		{http.MethodPost, "/charts/sensitivity"},
		{http.MethodGet, "/deposit/schedule"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := do(t, router, rt.method, rt.path, "{}")
			assert.NotEqual(t, http.StatusNotFound, w.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}

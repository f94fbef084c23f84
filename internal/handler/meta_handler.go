package handler

import (
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// MetaHandler serves the welcome, documentation and health endpoints.
type MetaHandler struct {
	docs  string
	ready *atomic.Bool
}

// NewMetaHandler creates a new meta handler. docs names the registered swag
// document; ready is owned by the process lifecycle.
func NewMetaHandler(docs string, ready *atomic.Bool) *MetaHandler {
	return &MetaHandler{docs: docs, ready: ready}
}

// Welcome godoc
// @Summary Welcome message
// @Tags meta
// @Produce json
// @Success 200 {object} MessageResponse
// @Router / [get]
func (h *MetaHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "welcome"})
}

// APIDocs godoc
// @Summary API description document
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api-docs [get]
func (h *MetaHandler) APIDocs(c echo.Context) error {
	doc, err := swag.ReadDoc(h.docs)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}

// Health reports readiness. It turns 503 once shutdown begins.
func (h *MetaHandler) Health(c echo.Context) error {
	if h.ready == nil || !h.ready.Load() {
		return c.String(http.StatusServiceUnavailable, "shutting down")
	}
	return c.String(http.StatusOK, "ok")
}

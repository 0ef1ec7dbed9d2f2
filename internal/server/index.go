// internal/server/index.go
package server

import (
	"net/http"

	"claims-portal/internal/common/flash"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/view"
)

// indexHandler renders the empty claim form. A pending flash, left by a
// successful submission before its redirect, is shown once as a modal.
type indexHandler struct {
	flash  flash.Store
	view   *view.Renderer
	logger logger.Logger
}

func (h *indexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := &view.Page{}

	if h.flash != nil {
		msg, err := flash.PopFromRequest(r.Context(), h.flash, w, r)
		if err != nil {
			h.logger.Warn("flash pop failed", map[string]interface{}{"error": err})
		}
		if msg != nil {
			page.Modal = &view.Modal{
				Title:   msg.Title,
				Message: msg.Message,
				Detail:  msg.Detail,
				Variant: msg.Variant,
			}
		}
	}

	if err := h.view.Render(w, http.StatusOK, page); err != nil {
		h.logger.Error("render failed", map[string]interface{}{"error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

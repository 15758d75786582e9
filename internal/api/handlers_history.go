package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdweave/internal/history"
	"github.com/dgallion1/mdweave/internal/render"
)

// handleListConversions lists recorded conversions, newest first.
func (s *Server) handleListConversions(w http.ResponseWriter, r *http.Request) {
	store := s.history()
	if store == nil {
		jsonError(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	list, err := store.List(limit, offset)
	if err != nil {
		jsonError(w, "failed to list conversions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*history.Conversion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversions": list,
		"count":       len(list),
	})
}

// handleGetConversion returns one recorded conversion.
func (s *Server) handleGetConversion(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupConversion(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleConversionMarkdown serves the stored document body.
func (s *Server) handleConversionMarkdown(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupConversion(w, r)
	if !ok {
		return
	}
	md, err := s.history().Markdown(c.ID)
	if err != nil {
		jsonError(w, "failed to load markdown: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

// handleConversionPreview renders the stored document as sanitized HTML.
func (s *Server) handleConversionPreview(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupConversion(w, r)
	if !ok {
		return
	}
	md, err := s.history().Markdown(c.ID)
	if err != nil {
		jsonError(w, "failed to load markdown: "+err.Error(), http.StatusInternalServerError)
		return
	}
	html, err := render.HTML(md)
	if err != nil {
		jsonError(w, "failed to render preview: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// lookupConversion resolves the {id} URL parameter against the store,
// writing the error response itself when the record cannot be served.
func (s *Server) lookupConversion(w http.ResponseWriter, r *http.Request) (*history.Conversion, bool) {
	store := s.history()
	if store == nil {
		jsonError(w, "history unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	id := chi.URLParam(r, "id")
	c, err := store.Get(id)
	if err != nil {
		jsonError(w, "failed to load conversion: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if c == nil {
		jsonError(w, "conversion not found", http.StatusNotFound)
		return nil, false
	}
	return c, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")

	book, err := s.books.FindByID(r.Context(), isbn)
	if err != nil {
		s.logger.Error("get book failed", "isbn", isbn, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to read book")
		return
	}
	if book == nil {
		respondError(w, http.StatusNotFound, "not_found", "no book with isbn "+isbn)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 10)
	if size <= 0 {
		size = 10
	}

	books, err := s.books.FindAll(r.Context())
	if err != nil {
		s.logger.Error("list books failed", "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to list books")
		return
	}

	// Page in memory; the membership set has no native pagination
	total := len(books)
	pages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"books": books[start:end],
		"page":  page,
		"pages": pages,
		"total": total,
	})
}

func (s *Server) searchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "query parameter q is required")
		return
	}

	result, err := s.searcher.Search(r.Context(), query, queryInt(r, "size", 10))
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "search failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) suggestAuthors(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "query parameter q is required")
		return
	}

	suggestions, err := s.searcher.SuggestAuthors(r.Context(), prefix, 20)
	if err != nil {
		s.logger.Error("autocomplete failed", "prefix", prefix, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "autocomplete failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

func queryInt(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}

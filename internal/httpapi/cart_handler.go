package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfstore/shelfstore"
)

// AddItemRequest is the body for POST /api/carts/{id}/items. Price is
// ignored on input; it is stamped server-side from the book record.
type AddItemRequest struct {
	ISBN     string `json:"isbn"`
	Quantity int64  `json:"quantity"`
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cart, err := s.carts.FindByID(r.Context(), id)
	if err != nil {
		s.logger.Error("get cart failed", "cartId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to read cart")
		return
	}
	if cart == nil {
		respondError(w, http.StatusNotFound, "not_found", "no cart with id "+id)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ISBN == "" {
		respondError(w, http.StatusBadRequest, "invalid_isbn", "isbn is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	err := s.service.AddToCart(r.Context(), id, shelfstore.CartItem{
		ISBN:     req.ISBN,
		Quantity: req.Quantity,
	})
	if err != nil {
		if shelfstore.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "not_found", "no cart with id "+id)
			return
		}
		s.logger.Error("add to cart failed", "cartId", id, "isbn", req.ISBN, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to add item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	isbn := chi.URLParam(r, "isbn")

	if err := s.service.RemoveFromCart(r.Context(), id, isbn); err != nil {
		s.logger.Error("remove from cart failed", "cartId", id, "isbn", isbn, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to remove item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.service.Checkout(r.Context(), id); err != nil {
		if shelfstore.IsNotFound(err) {
			respondError(w, http.StatusNotFound, "not_found", "cart or owner does not exist")
			return
		}
		s.logger.Error("checkout failed", "cartId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "checkout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

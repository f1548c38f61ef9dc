package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfstore/shelfstore"
)

// userView hides the password hash from API responses
type userView struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
	Books []string `json:"books,omitempty"`
}

func toUserView(u *shelfstore.User) userView {
	return userView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Roles: u.Roles,
		Books: u.Books,
	}
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.users.FindByID(r.Context(), id)
	if err != nil {
		s.logger.Error("get user failed", "userId", id, "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to read user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "not_found", "no user with id "+id)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(user))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		user, err := s.users.FindFirstByEmail(r.Context(), email)
		if err != nil {
			s.logger.Error("find user by email failed", "error", err)
			respondError(w, http.StatusInternalServerError, "backend_error", "failed to look up user")
			return
		}
		views := []userView{}
		if user != nil {
			views = append(views, toUserView(user))
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"users": views})
		return
	}

	users, err := s.users.FindAll(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "backend_error", "failed to list users")
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"users": views})
}

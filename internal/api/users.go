package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

type createUserRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Role    string `json:"role" validate:"required,oneof=CUSTOMER OWNER ADMIN"`
	Name    string `json:"name"`
	Phone   string `json:"phone" validate:"phone10"`
	SalonID string `json:"salon_id"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := &models.User{
		ID:        "u_" + uuid.NewString(),
		Email:     req.Email,
		Role:      req.Role,
		Name:      req.Name,
		Phone:     req.Phone,
		SalonID:   req.SalonID,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("create user")
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleLookupUser finds the account for an email+role pair, the shape a
// sign-in flow needs.
func (s *Server) handleLookupUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	role := r.URL.Query().Get("role")
	if email == "" || role == "" {
		respondError(w, http.StatusBadRequest, "email and role are required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email, role)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"phone10"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateUserProfile(r.Context(), id, req.Name, req.Phone); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"name": req.Name, "phone": req.Phone})
}

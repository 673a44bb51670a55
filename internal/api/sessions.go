package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

// Session handlers expose the per-customer arrival-prompt protocol. Opening
// a session starts that customer's reminder scheduler; closing it stops the
// scheduler and drops any outstanding prompt.

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["id"]
	// The scheduler must outlive this request, so it runs under the
	// server's base context rather than the request's.
	s.sessions.Open(s.baseCtx, customerID)
	s.logger.Info().Str("customer_id", customerID).Msg("customer session opened")
	respondJSON(w, http.StatusOK, map[string]string{"session": "open"})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["id"]
	s.sessions.Close(customerID)
	s.logger.Info().Str("customer_id", customerID).Msg("customer session closed")
	respondJSON(w, http.StatusOK, map[string]string{"session": "closed"})
}

type promptResponse struct {
	Pending bool            `json:"pending"`
	Booking *models.Booking `json:"booking,omitempty"`
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	sched := s.sessions.Get(mux.Vars(r)["id"])
	if sched == nil {
		respondError(w, http.StatusNotFound, "no open session")
		return
	}

	b := sched.Outstanding()
	respondJSON(w, http.StatusOK, promptResponse{Pending: b != nil, Booking: b})
}

func (s *Server) handlePromptConfirm(w http.ResponseWriter, r *http.Request) {
	s.respondToPrompt(w, r, true)
}

func (s *Server) handlePromptCancel(w http.ResponseWriter, r *http.Request) {
	s.respondToPrompt(w, r, false)
}

func (s *Server) respondToPrompt(w http.ResponseWriter, r *http.Request, confirm bool) {
	customerID := mux.Vars(r)["id"]
	sched := s.sessions.Get(customerID)
	if sched == nil {
		respondError(w, http.StatusNotFound, "no open session")
		return
	}

	if err := sched.Respond(r.Context(), confirm); err != nil {
		respondDomainError(w, err)
		return
	}

	s.logger.Info().Str("customer_id", customerID).Bool("confirmed", confirm).Msg("arrival prompt answered")
	respondJSON(w, http.StatusOK, map[string]bool{"confirmed": confirm})
}

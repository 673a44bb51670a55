package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kithuachu121-spec/salonslotbook/internal/availability"
	"github.com/kithuachu121-spec/salonslotbook/internal/booking"
	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

type createBookingRequest struct {
	SalonID       string `json:"salon_id" validate:"required"`
	CustomerID    string `json:"customer_id" validate:"required"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone" validate:"phone10"`
	ServiceID     string `json:"service_id" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string `json:"time" validate:"required"`
}

type conflictResponse struct {
	Error        string              `json:"error"`
	Availability []availability.Slot `json:"availability"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	salon, err := s.store.GetSalon(r.Context(), req.SalonID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if salon.IsClosedOn(req.Date) {
		respondError(w, http.StatusBadRequest, "salon is closed on this date")
		return
	}

	svc, ok := findService(salon, req.ServiceID)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown service")
		return
	}

	created, err := s.bookings.Create(r.Context(), booking.CreateParams{
		SalonID:       req.SalonID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Price:         svc.Price,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		if errors.Is(err, models.ErrSlotConflict) {
			s.respondConflictWithAvailability(w, r, salon, req.Date)
			return
		}
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// respondConflictWithAvailability re-resolves the day so the caller can pick
// another slot straight from the 409 body.
func (s *Server) respondConflictWithAvailability(w http.ResponseWriter, r *http.Request, salon *models.Salon, date string) {
	resolved, err := s.resolver.Resolve(r.Context(), salon, date)
	if err != nil {
		s.logger.Error().Err(err).Str("salon_id", salon.ID).Str("date", date).Msg("re-resolve after conflict")
		respondError(w, http.StatusConflict, "slot already booked")
		return
	}
	respondJSON(w, http.StatusConflict, conflictResponse{
		Error:        "slot already booked",
		Availability: resolved,
	})
}

func findService(salon *models.Salon, serviceID string) (models.Service, bool) {
	for _, svc := range salon.Services {
		if svc.ID == serviceID {
			return svc, true
		}
	}
	return models.Service{}, false
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) handleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.bookings.UpdateStatus(r.Context(), id, models.BookingStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleConfirmArrival(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.bookings.ConfirmArrival(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"customer_confirmed": true})
}

func (s *Server) handleCustomerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListByCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

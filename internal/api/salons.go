package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
	"github.com/kithuachu121-spec/salonslotbook/internal/report"
	"github.com/kithuachu121-spec/salonslotbook/internal/slots"
)

type createSalonRequest struct {
	Name      string           `json:"name" validate:"required"`
	OwnerName string           `json:"owner_name"`
	Email     string           `json:"email" validate:"omitempty,email"`
	Phone     string           `json:"phone" validate:"phone10"`
	Location  string           `json:"location"`
	OpenTime  string           `json:"open_time" validate:"required"`
	CloseTime string           `json:"close_time" validate:"required"`
	Services  []models.Service `json:"services"`
}

func (s *Server) handleCreateSalon(w http.ResponseWriter, r *http.Request) {
	var req createSalonRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := slots.ValidateHours(req.OpenTime, req.CloseTime); err != nil {
		respondDomainError(w, err)
		return
	}

	salon := &models.Salon{
		ID:           "sl_" + uuid.NewString(),
		Name:         req.Name,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Location:     req.Location,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		Services:     req.Services,
		Status:       models.SalonActive,
		LastActivity: s.now(),
	}
	for i := range salon.Services {
		if salon.Services[i].ID == "" {
			salon.Services[i].ID = "svc_" + uuid.NewString()
		}
	}

	if err := s.store.CreateSalon(r.Context(), salon); err != nil {
		s.logger.Error().Err(err).Msg("create salon")
		respondDomainError(w, err)
		return
	}

	s.logger.Info().Str("salon_id", salon.ID).Str("name", salon.Name).Msg("salon registered")
	respondJSON(w, http.StatusCreated, salon)
}

// handleListSalons applies inactivity marking before answering. The admin
// view (?view=admin) sees every salon with booking counts; customers see
// ACTIVE salons only.
func (s *Server) handleListSalons(w http.ResponseWriter, r *http.Request) {
	salons, err := s.store.ListSalons(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list salons")
		respondDomainError(w, err)
		return
	}

	cutoff := s.now().Add(-s.inactiveAfter)
	for i := range salons {
		if salons[i].Status == models.SalonActive && salons[i].LastActivity.Before(cutoff) {
			salons[i].Status = models.SalonInactive
			if err := s.store.SetSalonStatus(r.Context(), salons[i].ID, models.SalonInactive); err != nil {
				s.logger.Error().Err(err).Str("salon_id", salons[i].ID).Msg("mark salon inactive")
			}
		}
	}

	if r.URL.Query().Get("view") == "admin" {
		respondJSON(w, http.StatusOK, salons)
		return
	}

	visible := make([]models.Salon, 0, len(salons))
	for _, sl := range salons {
		if sl.Status == models.SalonActive {
			sl.BookingCount = 0
			visible = append(visible, sl)
		}
	}
	respondJSON(w, http.StatusOK, visible)
}

func (s *Server) handleGetSalon(w http.ResponseWriter, r *http.Request) {
	salon, err := s.store.GetSalon(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, salon)
}

// handleDeleteSalon removes the salon with its reviews, bookings and owner
// accounts. Admin surface.
func (s *Server) handleDeleteSalon(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	if err := s.store.DeleteSalon(r.Context(), salonID); err != nil {
		respondDomainError(w, err)
		return
	}

	s.cache.InvalidateSalon(r.Context(), salonID)
	s.logger.Info().Str("salon_id", salonID).Msg("salon deleted")
	respondJSON(w, http.StatusOK, map[string]string{"deleted": salonID})
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]
	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if cached, ok := s.cache.Get(r.Context(), salonID, date); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	salon, err := s.store.GetSalon(r.Context(), salonID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resolved, err := s.resolver.Resolve(r.Context(), salon, date)
	if err != nil {
		s.logger.Error().Err(err).Str("salon_id", salonID).Str("date", date).Msg("resolve availability")
		respondDomainError(w, err)
		return
	}

	s.cache.Set(r.Context(), salonID, date, resolved)
	respondJSON(w, http.StatusOK, resolved)
}

type updateServicesRequest struct {
	Services []models.Service `json:"services"`
}

func (s *Server) handleUpdateServices(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	var req updateServicesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	for _, svc := range req.Services {
		if svc.Name == "" || svc.Price < 0 || svc.DurationMins <= 0 {
			respondError(w, http.StatusBadRequest, "each service needs a name, a non-negative price and a positive duration")
			return
		}
	}
	for i := range req.Services {
		if req.Services[i].ID == "" {
			req.Services[i].ID = "svc_" + uuid.NewString()
		}
	}

	if err := s.store.UpdateSalonServices(r.Context(), salonID, req.Services, s.now()); err != nil {
		respondDomainError(w, err)
		return
	}

	s.logger.Info().Str("salon_id", salonID).Int("services", len(req.Services)).Msg("service catalog replaced")
	respondJSON(w, http.StatusOK, req.Services)
}

type updateHoursRequest struct {
	OpenTime  string `json:"open_time" validate:"required"`
	CloseTime string `json:"close_time" validate:"required"`
}

func (s *Server) handleUpdateHours(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	var req updateHoursRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := slots.ValidateHours(req.OpenTime, req.CloseTime); err != nil {
		respondDomainError(w, err)
		return
	}

	if err := s.store.UpdateSalonHours(r.Context(), salonID, req.OpenTime, req.CloseTime, s.now()); err != nil {
		respondDomainError(w, err)
		return
	}

	// Every cached day for this salon is stale now.
	s.cache.InvalidateSalon(r.Context(), salonID)
	s.logger.Info().Str("salon_id", salonID).Str("open", req.OpenTime).Str("close", req.CloseTime).Msg("operating hours updated")
	respondJSON(w, http.StatusOK, map[string]string{"open_time": req.OpenTime, "close_time": req.CloseTime})
}

type closedDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

func (s *Server) handleAddClosedDate(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	var req closedDateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	salon, err := s.store.GetSalon(r.Context(), salonID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if !salon.IsClosedOn(req.Date) {
		dates := append(salon.ClosedDates, req.Date)
		if err := s.store.SetClosedDates(r.Context(), salonID, dates, s.now()); err != nil {
			respondDomainError(w, err)
			return
		}
		salon.ClosedDates = dates
	}

	s.cache.Invalidate(r.Context(), salonID, req.Date)
	respondJSON(w, http.StatusOK, map[string][]string{"closed_dates": salon.ClosedDates})
}

func (s *Server) handleRemoveClosedDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, date := vars["id"], vars["date"]

	salon, err := s.store.GetSalon(r.Context(), salonID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	dates := make([]string, 0, len(salon.ClosedDates))
	for _, d := range salon.ClosedDates {
		if d != date {
			dates = append(dates, d)
		}
	}
	if err := s.store.SetClosedDates(r.Context(), salonID, dates, s.now()); err != nil {
		respondDomainError(w, err)
		return
	}

	s.cache.Invalidate(r.Context(), salonID, date)
	respondJSON(w, http.StatusOK, map[string][]string{"closed_dates": dates})
}

type customSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required"`
}

func (s *Server) handleAddCustomSlot(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	req, salon, ok := s.decodeCustomSlot(w, r, salonID)
	if !ok {
		return
	}

	exists := false
	for _, cs := range salon.CustomSlots {
		if cs.Date == req.Date && cs.Time == req.Time {
			exists = true
			break
		}
	}
	if !exists {
		updated := append(salon.CustomSlots, models.CustomSlot{Date: req.Date, Time: req.Time})
		if err := s.store.SetCustomSlots(r.Context(), salonID, updated, s.now()); err != nil {
			respondDomainError(w, err)
			return
		}
		salon.CustomSlots = updated
	}

	s.cache.Invalidate(r.Context(), salonID, req.Date)
	respondJSON(w, http.StatusOK, map[string][]models.CustomSlot{"custom_slots": salon.CustomSlots})
}

func (s *Server) handleRemoveCustomSlot(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	req, salon, ok := s.decodeCustomSlot(w, r, salonID)
	if !ok {
		return
	}

	updated := make([]models.CustomSlot, 0, len(salon.CustomSlots))
	for _, cs := range salon.CustomSlots {
		if cs.Date != req.Date || cs.Time != req.Time {
			updated = append(updated, cs)
		}
	}
	if err := s.store.SetCustomSlots(r.Context(), salonID, updated, s.now()); err != nil {
		respondDomainError(w, err)
		return
	}

	s.cache.Invalidate(r.Context(), salonID, req.Date)
	respondJSON(w, http.StatusOK, map[string][]models.CustomSlot{"custom_slots": updated})
}

func (s *Server) decodeCustomSlot(w http.ResponseWriter, r *http.Request, salonID string) (customSlotRequest, *models.Salon, bool) {
	var req customSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return req, nil, false
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return req, nil, false
	}
	if _, err := slots.ParseClock(req.Time); err != nil {
		respondDomainError(w, err)
		return req, nil, false
	}

	salon, err := s.store.GetSalon(r.Context(), salonID)
	if err != nil {
		respondDomainError(w, err)
		return req, nil, false
	}
	return req, salon, true
}

func (s *Server) handleSalonBookings(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	bookings, err := s.bookings.ListBySalon(r.Context(), salonID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if r.URL.Query().Get("format") != "xlsx" {
		respondJSON(w, http.StatusOK, bookings)
		return
	}

	salon, err := s.store.GetSalon(r.Context(), salonID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bookings_"+salonID+".xlsx"))
	if err := report.WriteBookingsXLSX(w, salon.Name, bookings); err != nil {
		s.logger.Error().Err(err).Str("salon_id", salonID).Msg("write bookings report")
	}
}

type createReviewRequest struct {
	CustomerID   string `json:"customer_id" validate:"required"`
	CustomerName string `json:"customer_name"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	salonID := mux.Vars(r)["id"]

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.GetSalon(r.Context(), salonID); err != nil {
		respondDomainError(w, err)
		return
	}

	review := &models.Review{
		ID:           "rv_" + uuid.NewString(),
		SalonID:      salonID,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateReview(r.Context(), review); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.store.ListReviewsBySalon(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

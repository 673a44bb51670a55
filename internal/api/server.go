// Package api exposes the scheduling engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/kithuachu121-spec/salonslotbook/internal/availability"
	"github.com/kithuachu121-spec/salonslotbook/internal/booking"
	"github.com/kithuachu121-spec/salonslotbook/internal/cache"
	"github.com/kithuachu121-spec/salonslotbook/internal/reminder"
	"github.com/kithuachu121-spec/salonslotbook/internal/storage"
)

// Server holds the handler dependencies and assembles the router.
type Server struct {
	store    *storage.Store
	bookings *booking.Service
	resolver *availability.Resolver
	cache    *cache.AvailabilityCache
	sessions *reminder.SessionManager
	validate *validator.Validate
	limiter  *rate.Limiter
	logger   *zerolog.Logger
	now      func() time.Time
	baseCtx  context.Context

	inactiveAfter time.Duration
}

type Options struct {
	// BaseContext bounds the lifetime of session schedulers opened through
	// the API. Defaults to context.Background().
	BaseContext   context.Context
	Store         *storage.Store
	Bookings      *booking.Service
	Resolver      *availability.Resolver
	Cache         *cache.AvailabilityCache
	Sessions      *reminder.SessionManager
	Logger        *zerolog.Logger
	InactiveAfter time.Duration
	RateRPS       float64
	RateBurst     int
}

func NewServer(opts Options) *Server {
	if opts.RateRPS <= 0 {
		opts.RateRPS = 20
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 40
	}
	if opts.InactiveAfter <= 0 {
		opts.InactiveAfter = 5 * 24 * time.Hour
	}
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	return &Server{
		store:         opts.Store,
		bookings:      opts.Bookings,
		resolver:      opts.Resolver,
		cache:         opts.Cache,
		sessions:      opts.Sessions,
		validate:      newValidator(),
		limiter:       rate.NewLimiter(rate.Limit(opts.RateRPS), opts.RateBurst),
		logger:        opts.Logger,
		now:           time.Now,
		baseCtx:       opts.BaseContext,
		inactiveAfter: opts.InactiveAfter,
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.rateLimit)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/salons", s.handleListSalons).Methods(http.MethodGet)
	api.HandleFunc("/salons", s.handleCreateSalon).Methods(http.MethodPost)
	api.HandleFunc("/salons/{id}", s.handleGetSalon).Methods(http.MethodGet)
	api.HandleFunc("/salons/{id}", s.handleDeleteSalon).Methods(http.MethodDelete)
	api.HandleFunc("/salons/{id}/availability", s.handleAvailability).Methods(http.MethodGet)
	api.HandleFunc("/salons/{id}/services", s.handleUpdateServices).Methods(http.MethodPut)
	api.HandleFunc("/salons/{id}/hours", s.handleUpdateHours).Methods(http.MethodPut)
	api.HandleFunc("/salons/{id}/closed-dates", s.handleAddClosedDate).Methods(http.MethodPost)
	api.HandleFunc("/salons/{id}/closed-dates/{date}", s.handleRemoveClosedDate).Methods(http.MethodDelete)
	api.HandleFunc("/salons/{id}/custom-slots", s.handleAddCustomSlot).Methods(http.MethodPost)
	api.HandleFunc("/salons/{id}/custom-slots", s.handleRemoveCustomSlot).Methods(http.MethodDelete)
	api.HandleFunc("/salons/{id}/bookings", s.handleSalonBookings).Methods(http.MethodGet)
	api.HandleFunc("/salons/{id}/reviews", s.handleCreateReview).Methods(http.MethodPost)
	api.HandleFunc("/salons/{id}/reviews", s.handleListReviews).Methods(http.MethodGet)

	api.HandleFunc("/bookings", s.handleCreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/status", s.handleUpdateBookingStatus).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{id}/confirm-arrival", s.handleConfirmArrival).Methods(http.MethodPost)

	api.HandleFunc("/customers/{id}/bookings", s.handleCustomerBookings).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/session", s.handleOpenSession).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}/session", s.handleCloseSession).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id}/prompt", s.handleGetPrompt).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/prompt/confirm", s.handlePromptConfirm).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}/prompt/cancel", s.handlePromptCancel).Methods(http.MethodPost)

	api.HandleFunc("/users", s.handleCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users", s.handleLookupUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.handleUpdateProfile).Methods(http.MethodPut)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, time.Second)
	defer cancel()
	if err := s.store.PingContext(ctx); err != nil {
		http.Error(w, "db not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

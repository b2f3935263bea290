package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/auth"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/service"
)

// TripHandler serves the dashboard and the trip create, view, join and
// search pages. Every route is behind auth.RequireAuth.
type TripHandler struct {
	trips  *service.TripService
	render *Renderer
	logger *slog.Logger
}

func NewTripHandler(trips *service.TripService, render *Renderer, logger *slog.Logger) *TripHandler {
	return &TripHandler{trips: trips, render: render, logger: logger}
}

// currentUser returns the identity RequireAuth put in the context.
func currentUser(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFromContext(r.Context())
	return id
}

// pathID reads a numeric URL parameter. Routes constrain it to digits, so
// a failure here means the value overflows int64.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// Dashboard lists the user's own trips and up to ten trips by others.
//
// HTTP: GET /dashboard
func (h *TripHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	owned, err := h.trips.ListOwned(r.Context(), user.UserID)
	if err != nil {
		serverError(h.logger, w, r, err)
		return
	}
	others, err := h.trips.ListOthers(r.Context(), user.UserID, service.DefaultOthersLimit)
	if err != nil {
		serverError(h.logger, w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "dashboard", "Dashboard", nil, struct {
		Owned, Others []model.Trip
	}{owned, others})
}

// ShowCreate renders the new trip form.
//
// HTTP: GET /create_trip
func (h *TripHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "create_trip", "New trip", nil, nil)
}

// Create stores a trip from the form.
//
// HTTP: POST /create_trip
//
// Validation failures (bad date, missing destination, non-numeric max
// people) come back to the form with the reason in a flash message.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, err := h.trips.Create(r.Context(), service.CreateTripInput{
		CreatorID:     currentUser(r).UserID,
		Title:         r.PostFormValue("title"),
		Destination:   r.PostFormValue("destination"),
		Details:       r.PostFormValue("details"),
		StartDatetime: r.PostFormValue("start_datetime"),
		Transport:     r.PostFormValue("transport"),
		MaxPeople:     r.PostFormValue("max_people"),
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation) {
			redirectWithFlash(w, r, "/create_trip", FlashDanger, appErr.Message)
			return
		}
		serverError(h.logger, w, r, err)
		return
	}

	redirectWithFlash(w, r, "/dashboard", FlashSuccess, "Trip created!")
}

// Show renders one trip with its travelers and chat.
//
// HTTP: GET /trip/{id}
func (h *TripHandler) Show(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	detail, err := h.trips.Detail(r.Context(), tripID, currentUser(r).UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			redirectWithFlash(w, r, "/dashboard", FlashDanger, "Trip not found")
			return
		}
		serverError(h.logger, w, r, err)
		return
	}

	title := detail.Trip.Title
	if title == "" {
		title = detail.Trip.Destination
	}
	h.render.Render(w, r, http.StatusOK, "trip", title, nil, detail)
}

// Join adds the user to the trip's travelers.
//
// HTTP: POST /join_trip/{id}
//
// Joining twice is not an error for the user: it ends on the trip page with
// a warning. Any failure other than "already joined" or "no such trip" is a
// 500, never a warning.
func (h *TripHandler) Join(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	tripURL := fmt.Sprintf("/trip/%d", tripID)

	err := h.trips.Join(r.Context(), tripID, currentUser(r).UserID)
	switch {
	case err == nil:
		redirectWithFlash(w, r, tripURL, FlashSuccess, "You joined the trip")
	case errors.Is(err, apperror.ErrAlreadyJoined):
		redirectWithFlash(w, r, tripURL, FlashWarning, apperror.ErrAlreadyJoined.Message)
	case errors.Is(err, apperror.ErrNotFound):
		redirectWithFlash(w, r, "/dashboard", FlashDanger, "Trip not found")
	default:
		serverError(h.logger, w, r, err)
	}
}

type searchPage struct {
	Query   string
	Results []model.Trip
}

// ShowSearch renders the empty search form.
//
// HTTP: GET /search
func (h *TripHandler) ShowSearch(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "search", "Search", nil, searchPage{})
}

// Search runs the query from the form.
//
// HTTP: POST /search
func (h *TripHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.PostFormValue("query")

	results, err := h.trips.Search(r.Context(), query)
	if err != nil {
		serverError(h.logger, w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "search", "Search", nil, searchPage{Query: query, Results: results})
}

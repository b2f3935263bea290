package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/auth"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/service"
)

// AuthHandler manages registration, login and logout.
//
// HANDLER RESPONSIBILITIES:
//   - ShowRegister / Register → account creation form
//   - ShowLogin / Login       → credential check, session cookie
//   - Logout                  → expire the session cookie
//   - Index                   → "/" sends logged-in users to the dashboard
type AuthHandler struct {
	users    *service.UserService
	sessions *auth.SessionManager
	render   *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(users *service.UserService, sessions *auth.SessionManager, render *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, render: render, logger: logger}
}

// Index shows the login page to anonymous visitors.
//
// HTTP: GET /  (behind auth.LoadSession)
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render.Render(w, r, http.StatusOK, "login", "Log in", nil, nil)
}

// ShowRegister renders the registration form.
//
// HTTP: GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "register", "Register", nil, nil)
}

// Register creates an account from the form fields name, email, password.
//
// HTTP: POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	_, err := h.users.Register(r.Context(),
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && (errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrValidation)) {
			redirectWithFlash(w, r, "/register", FlashDanger, appErr.Message)
			return
		}
		serverError(h.logger, w, r, err)
		return
	}

	redirectWithFlash(w, r, auth.LoginPath, FlashSuccess, "Registration successful. Please login.")
}

// ShowLogin renders the login form.
//
// HTTP: GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "login", "Log in", nil, nil)
}

// Login checks the credentials and starts a session.
//
// HTTP: POST /login
//
// A failed login re-renders the form in place (200) rather than
// redirecting, so the browser keeps the page it posted from.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			h.render.Render(w, r, http.StatusOK, "login", "Log in",
				&Flash{Category: FlashDanger, Message: apperror.ErrInvalidCredentials.Message}, nil)
			return
		}
		serverError(h.logger, w, r, err)
		return
	}

	if err := h.startSession(w, user); err != nil {
		serverError(h.logger, w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout ends the session.
//
// HTTP: GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// startSession signs a token for user and sets the session cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, user *model.User) error {
	token, err := h.sessions.Start(auth.Identity{UserID: user.ID, Name: user.Name})
	if err != nil {
		return err
	}
	h.sessions.SetCookie(w, token)
	return nil
}

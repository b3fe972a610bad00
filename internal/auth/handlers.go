package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"example.com/notesin/internal/httpx"
)

type Handlers struct {
	svc *Service
	log zerolog.Logger
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LoginResponse keeps the service's historical "logedInUserId" spelling.
type LoginResponse struct {
	LoggedInUserID string `json:"logedInUserId"`
	User           User   `json:"user"`
}

func NewHandlers(svc *Service, log zerolog.Logger) *Handlers {
	return &Handlers{svc: svc, log: log}
}

// Routes serves the account endpoints relative to /api/auth.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	return r
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	u, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, ErrMissingFields):
		httpx.WriteMessage(w, http.StatusBadRequest, "Username, email and password are required")
	case errors.Is(err, ErrInvalidEmail):
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid email address")
	case errors.Is(err, ErrAlreadyExists):
		httpx.WriteMessage(w, http.StatusConflict, "User already exists")
	case err != nil:
		h.log.Error().Err(err).Msg("register")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
	default:
		h.log.Info().Str("user", u.ID).Msg("user registered")
		httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{Message: "User registered successfully", User: u})
	}
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		h.log.Error().Err(err).Msg("login")
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
	default:
		httpx.WriteJSON(w, http.StatusOK, LoginResponse{LoggedInUserID: u.ID, User: u})
	}
}

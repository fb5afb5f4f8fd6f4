package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ozodbek-r/neoneats/internal/auth"
	"github.com/ozodbek-r/neoneats/internal/models"
)

// server implements the three auth endpoints the client consumes, speaking
// the same JSON the production backend does: field-keyed validation errors
// on register, {"detail": ...} on login failure, and a token-only register
// response.
type server struct {
	registry *registry
	jwt      *auth.JWTManager
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed request body"})
		return
	}

	fieldErrors := map[string][]string{}
	if req.Email == "" {
		fieldErrors["email"] = append(fieldErrors["email"], "This field is required.")
	}
	if req.Username == "" {
		fieldErrors["username"] = append(fieldErrors["username"], "This field is required.")
	}
	if req.Phone == "" {
		fieldErrors["phone"] = append(fieldErrors["phone"], "This field is required.")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		fieldErrors["password"] = append(fieldErrors["password"], err.Error())
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		fieldErrors["role"] = append(fieldErrors["role"], "Invalid role.")
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	user, err := s.registry.create(req.Email, req.Username, req.Phone, req.Password, role)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"email": {"A user with this email already exists."},
			})
			return
		}
		slog.Error("Failed to create account", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		return
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	// The production backend returns only the token here; the client
	// follows up with /me. The stub mirrors that asymmetry.
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed request body"})
		return
	}

	user, err := s.registry.authenticate(req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
		return
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": auth.ErrMissingToken.Error()})
		return
	}

	claims, err := s.jwt.Validate(parts[1])
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": auth.ErrInvalidToken.Error()})
		return
	}

	user, ok := s.registry.get(claims.UserID)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": auth.ErrInvalidToken.Error()})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register/", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login/", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me/", s.handleMe)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

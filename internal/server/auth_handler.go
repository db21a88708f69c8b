package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/anand/job-board/internal/config"
	"github.com/anand/job-board/internal/server/middleware"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the success body of POST /api/auth/login. The token is
// also set as the session cookie the admin gate inspects.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	store          Store
	passwordConfig *config.PasswordConfig
	jwtService     *JWTService
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(st Store, passwordConfig *config.PasswordConfig, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		store:          st,
		passwordConfig: passwordConfig,
		jwtService:     jwtService,
		validator:      validator.New(),
		logger:         logger,
	}
}

// Login verifies admin credentials and stores the signed session token as the
// cookie the admin gate inspects.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	admin, err := h.store.GetAdminByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("admin lookup failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	// Same generic error whether the account is unknown or the password is
	// wrong.
	if admin == nil || !h.passwordConfig.VerifyPassword(req.Password, admin.PasswordHash) {
		credErr := &ErrInvalidCredentials{}
		writeMessage(w, HTTPStatus(credErr), credErr.Error())
		return
	}

	token, err := h.jwtService.GenerateToken(admin.ID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtService.TokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("admin logged in", zap.String("email", admin.Email))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(LoginResponse{Success: true, Token: token})
}

// Logout clears the session cookie, reverting subsequent admin navigations to
// the unauthenticated branch of the gate.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// writeMessage writes an error JSON response carrying a user-facing message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}

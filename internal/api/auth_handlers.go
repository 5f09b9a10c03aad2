package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/example/ecshop/internal/api/middleware"
	"github.com/example/ecshop/internal/auth"
	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/service"
)

// AuthHandlers handles registration, login and the caller profile.
type AuthHandlers struct {
	users      *service.UserService
	jwtService *auth.JWTService
	logger     *slog.Logger
}

func NewAuthHandlers(users *service.UserService, jwtService *auth.JWTService, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{users: users, jwtService: jwtService, logger: logger}
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public shape of a user. The password hash never
// appears here.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Register handles user registration.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.users.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

// Login exchanges form credentials (username field carries the email) for
// a bearer access token.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondJSONError(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}

	token, _, err := h.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated caller's profile.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, h.logger, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// Package api exposes the HTTP surface: request decoding, authorization
// checks via middleware, and mapping service results and domain errors to
// JSON responses.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/ecshop/internal/auth"
	"github.com/example/ecshop/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

var notFoundErrors = []error{
	domain.ErrUserNotFound,
	domain.ErrCategoryNotFound,
	domain.ErrProductNotFound,
	domain.ErrCartItemNotFound,
	domain.ErrOrderNotFound,
	domain.ErrWishlistItemNotFound,
}

var validationErrors = []error{
	domain.ErrEmailTaken,
	domain.ErrUsernameTaken,
	domain.ErrInvalidInput,
	domain.ErrInsufficientStock,
	domain.ErrEmptyOrder,
	domain.ErrNotCancellable,
	domain.ErrCategoryHasProduct,
	domain.ErrAlreadyInWishlist,
	auth.ErrPasswordTooShort,
}

func errorStatus(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, domain.ErrUserDeactivated) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondServiceError maps a service error to its HTTP class. Internal
// failures are logged and answered with a generic message so no store
// detail leaks to the caller.
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondJSONError(w, "Internal server error occurred", status)
		return
	}
	respondJSONError(w, err.Error(), status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

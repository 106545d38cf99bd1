// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/models"
)

// tokenCookie carries the JWT for browser clients.
const tokenCookie = "token"

// Register handles POST /api/v1/auth/register and logs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	if h.jwtManager == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Accounts are disabled in this auth mode", nil)
		return
	}

	var req models.CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.policy.Validate(req.Password, req.Username); err != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: err.Error(),
			Details: map[string]interface{}{"field": "password"},
		}, nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create account", err)
		return
	}

	user, err := h.db.CreateUser(ctx, req.Username, hash)
	if errors.Is(err, database.ErrUserExists) {
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Username is already taken", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create account", err)
		return
	}

	h.authLog.Registered(user.ID, user.Username, auth.ClientIP(r))

	resp, ok := h.issueToken(w, r, user)
	if !ok {
		return
	}
	respondStatus(w, r, http.StatusCreated, resp, start)
}

// Login handles POST /api/v1/auth/login.
//
// Unknown users and wrong passwords get the same 401. Repeated failures lock
// the username out with a 429 and Retry-After.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	ip := auth.ClientIP(r)

	if h.jwtManager == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Accounts are disabled in this auth mode", nil)
		return
	}

	var req models.CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	subject := strings.ToLower(req.Username)

	if locked, remaining := h.lockout.CheckLocked(subject); locked {
		h.authLog.LoginFailed(req.Username, ip, "locked out")
		tooManyAttempts(w, r, remaining)
		return
	}

	user, err := h.db.GetUser(ctx, req.Username)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Login failed", err)
		return
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		reason := "bad password"
		if user == nil {
			reason = "unknown user"
		}
		h.authLog.LoginFailed(req.Username, ip, reason)
		if locked, d := h.lockout.RecordFailure(subject); locked {
			tooManyAttempts(w, r, d)
			return
		}
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid username or password", nil)
		return
	}

	h.lockout.RecordSuccess(subject)
	h.authLog.LoginSucceeded(user.ID, user.Username, ip)

	resp, ok := h.issueToken(w, r, user)
	if !ok {
		return
	}
	respondSuccess(w, r, resp, start)
}

// issueToken signs a JWT for user and sets it as an HttpOnly cookie.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, user *models.User) (models.LoginResponse, bool) {
	token, expiresAt, err := h.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to issue token", err)
		return models.LoginResponse{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteStrictMode,
	})

	return models.LoginResponse{Token: token, ExpiresAt: expiresAt, Username: user.Username}, true
}

func tooManyAttempts(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))
	respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many failed attempts, try again later", nil)
}

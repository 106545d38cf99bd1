// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// maxUserAgentLen caps logged user agents.
const maxUserAgentLen = 120

// AuthEvent is one authentication audit record.
type AuthEvent struct {
	Event     string // login_success, login_failure, register, token_rejected
	UserID    int64
	Username  string
	IPAddress string
	UserAgent string
	Success   bool
	Reason    string
}

// AuthLogger writes authentication audit events. Usernames are masked and
// tokens are never logged in full.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger returns an audit logger derived from logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuthLogger(logger zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// Log writes ev. Failures log at warn, successes at info.
//
//nolint:gocritic // hugeParam: AuthEvent passed by value for call-site convenience
func (l *AuthLogger) Log(ev AuthEvent) {
	e := l.logger.Info()
	if !ev.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", ev.Event).Bool("success", ev.Success)
	if ev.UserID != 0 {
		e = e.Int64("user_id", ev.UserID)
	}
	if ev.Username != "" {
		e = e.Str("username", MaskUsername(ev.Username))
	}
	if ev.IPAddress != "" {
		e = e.Str("ip", ev.IPAddress)
	}
	if ev.UserAgent != "" {
		e = e.Str("user_agent", truncate(ev.UserAgent, maxUserAgentLen))
	}
	if ev.Reason != "" {
		e = e.Str("reason", ev.Reason)
	}
	e.Msg("auth event")
}

// LoginSucceeded records a successful password login.
func (l *AuthLogger) LoginSucceeded(userID int64, username, ip string) {
	l.Log(AuthEvent{Event: "login_success", UserID: userID, Username: username, IPAddress: ip, Success: true})
}

// LoginFailed records a rejected login.
func (l *AuthLogger) LoginFailed(username, ip, reason string) {
	l.Log(AuthEvent{Event: "login_failure", Username: username, IPAddress: ip, Reason: reason})
}

// Registered records a new account.
func (l *AuthLogger) Registered(userID int64, username, ip string) {
	l.Log(AuthEvent{Event: "register", UserID: userID, Username: username, IPAddress: ip, Success: true})
}

// TokenRejected records a bearer token that failed validation.
func (l *AuthLogger) TokenRejected(token, ip, reason string) {
	l.Log(AuthEvent{Event: "token_rejected", IPAddress: ip, Reason: reason + " (" + MaskToken(token) + ")"})
}

// MaskToken keeps the first and last four characters of token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// MaskUsername keeps the first two runes of username.
func MaskUsername(username string) string {
	if utf8.RuneCountInString(username) <= 2 {
		return "***"
	}
	r := []rune(username)
	return string(r[:2]) + "***"
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return string([]rune(s)[:maxRunes]) + "..."
}

// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package auth provides user authentication for the rating and admin endpoints.

Components:
  - JWTManager: HS256 tokens carrying the username (sub) and user id (uid)
  - HashPassword / CheckPassword: bcrypt password storage
  - PasswordPolicy: registration password rules
  - LockoutManager: temporary lockout after repeated failed logins
  - Middleware: RequireAuth rejects anonymous requests with 401,
    OptionalAuth attaches claims when a valid token is present

Tokens are read from "Authorization: Bearer <token>" or the "token" cookie.
With auth_mode=none every request is treated as the "anonymous" user; this is
refused in production by config validation.
*/
package auth

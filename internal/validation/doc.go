// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation validates request payloads with go-playground/validator.
//
// A single validator instance is shared process-wide because it caches
// struct metadata. Errors name fields by their JSON tag and convert to the
// API's VALIDATION_ERROR shape:
//
//	var req models.RatingRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation

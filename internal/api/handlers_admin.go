// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ModelStatus handles GET /api/v1/admin/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendations are disabled", nil)
		return
	}
	respondSuccess(w, r, h.engine.Status(), start)
}

// RebuildModel handles POST /api/v1/admin/model/rebuild. Requires authentication.
//
// The build runs in the request but is detached from client cancellation;
// the previous model keeps serving until the new one is installed.
func (h *Handler) RebuildModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendations are disabled", nil)
		return
	}

	if h.engine.Status().Rebuilding {
		respondError(w, r, http.StatusConflict, ErrCodeConflict, recommend.ErrRebuildInProgress.Error(), nil)
		return
	}

	if res := h.rebuildLimiter.Reserve(); !res.OK() || res.Delay() > 0 {
		delay := res.Delay()
		res.Cancel()
		w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
		respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rebuild was triggered recently, try again later", nil)
		return
	}

	logging.Ctx(ctx).Info().Msg("Model rebuild requested")
	outcome := h.engine.Rebuild(context.WithoutCancel(ctx))

	resp := outcomeResponse(outcome)
	switch {
	case errors.Is(outcome.Err, recommend.ErrRebuildInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, outcome.Err.Error(), nil)
	case errors.Is(outcome.Err, recommend.ErrEmptyCorpus):
		respondErrorDetails(w, r, http.StatusConflict, &models.APIError{
			Code:    ErrCodeConflict,
			Message: "Catalog is empty, nothing to build",
			Details: map[string]interface{}{"result": resp.Result},
		}, nil)
	case outcome.Err != nil:
		respondErrorDetails(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    ErrCodeInternal,
			Message: "Model rebuild failed",
			Details: map[string]interface{}{"result": resp.Result, "error": resp.Error},
		}, outcome.Err)
	default:
		respondSuccess(w, r, resp, start)
	}
}

func outcomeResponse(o recommend.LoadOutcome) models.LoadOutcomeResponse {
	resp := models.LoadOutcomeResponse{
		Result:     o.Result.String(),
		Movies:     o.Movies,
		Terms:      o.Terms,
		DurationMS: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		resp.Error = o.Err.Error()
	}
	if o.SaveErr != nil {
		resp.SaveError = o.SaveErr.Error()
	}
	return resp
}

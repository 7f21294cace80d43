// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/video", nil)
	req = req.WithContext(log.ContextWithRequestID(req.Context(), "req-42"))
	rr := httptest.NewRecorder()

	Write(rr, req, http.StatusInternalServerError, "video/internal", "Internal Server Error", "INTERNAL", "could not open media",
		map[string]any{"retryable": false, "status": 999})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, ContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, "req-42", rr.Header().Get(HeaderRequestID))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "video/internal", body["type"])
	assert.Equal(t, "INTERNAL", body["code"])
	assert.Equal(t, "/video", body["instance"])
	assert.Equal(t, "req-42", body[JSONKeyRequestID])
	assert.Equal(t, float64(http.StatusInternalServerError), body["status"], "reserved keys cannot be overridden")
	assert.Equal(t, false, body["retryable"])
}

func TestWrite_FallsBackToResponseHeaderRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/player/actions/x", nil)
	rr := httptest.NewRecorder()
	rr.Header().Set(HeaderRequestID, "hdr-1")

	Write(rr, req, http.StatusNotFound, "player/unknown_action", "Not Found", "UNKNOWN_ACTION", "", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "hdr-1", body[JSONKeyRequestID])
	_, hasDetail := body["detail"]
	assert.False(t, hasDetail)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/contigflow/pkg/contigflow"
)

// ClipRequest represents a quality clip request. Zero settings fall back
// to the default filter.
type ClipRequest struct {
	Quality    string  `json:"quality"`
	WindowSize int     `json:"window_size,omitempty"`
	MinQuality float64 `json:"min_quality,omitempty"`
	MinLength  int     `json:"min_length,omitempty"`
}

// ClipResponse represents the response for quality clipping.
type ClipResponse struct {
	Left  int  `json:"left"`
	Right int  `json:"right"`
	Keep  bool `json:"keep"`
}

// QualityClipHandler handles quality clip requests.
func QualityClipHandler(w http.ResponseWriter, r *http.Request) {
	var req ClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f := contigflow.DefaultFilter()
	if req.WindowSize > 0 {
		f.WindowSize = req.WindowSize
	}
	if req.MinQuality > 0 {
		f.MinWindowQuality = req.MinQuality
	}
	if req.MinLength > 0 {
		f.MinLength = req.MinLength
	}

	left, right, keep, err := contigflow.ClipRange(req.Quality, f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, ClipResponse{Left: left, Right: right, Keep: keep})
}

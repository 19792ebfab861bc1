package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/contigflow/pkg/contigflow"
)

// KMerDistanceRequest represents a k-mer distance request.
type KMerDistanceRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	K         int    `json:"k"`
}

// KMerDistanceResponse represents the response for k-mer distance.
type KMerDistanceResponse struct {
	K        int     `json:"k"`
	Distance float64 `json:"distance"`
}

// KMerDistanceHandler handles k-mer distance requests. Reverse complements
// count as the same k-mer.
func KMerDistanceHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerDistanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.K <= 0 {
		writeError(w, http.StatusBadRequest, "k must be positive")
		return
	}

	distance, err := contigflow.KmerDistance(req.Sequence1, req.Sequence2, req.K)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, KMerDistanceResponse{K: req.K, Distance: distance})
}

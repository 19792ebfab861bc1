package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/contigflow/pkg/contigflow"
)

// OverlapRequest represents an overlap alignment request.
type OverlapRequest struct {
	Sequence1  string `json:"sequence1"`
	Sequence2  string `json:"sequence2"`
	MinOverlap int    `json:"min_overlap,omitempty"`
	// MinScoreRatio is a percentage.
	MinScoreRatio int `json:"min_score_ratio,omitempty"`
}

// OverlapResponse represents the response for an overlap alignment.
type OverlapResponse struct {
	Found       bool   `json:"found"`
	Direction   int    `json:"direction,omitempty"`
	AlignedSeq1 string `json:"aligned_seq1,omitempty"`
	AlignedSeq2 string `json:"aligned_seq2,omitempty"`
	Score       int    `json:"score"`
	ScoreRatio  int    `json:"score_ratio"`
	Weight      int    `json:"weight"`
	Offset1     int    `json:"offset1"`
	Offset2     int    `json:"offset2"`
	CIGAR       string `json:"cigar,omitempty"`
	Mismatches  int    `json:"mismatches"`
	Gaps        int    `json:"gaps"`
}

// Limits used when a request names none.
var (
	defaultMinOverlap    = contigflow.DefaultOptions().Params.Types[contigflow.Sanger].MinOverlap
	defaultMinScoreRatio = contigflow.DefaultOptions().Params.Types[contigflow.Sanger].MinRelScore
)

// OverlapHandler handles overlap alignment requests. The second sequence is
// tried in both orientations.
func OverlapHandler(w http.ResponseWriter, r *http.Request) {
	var req OverlapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MinOverlap < 0 {
		writeError(w, http.StatusBadRequest, "min_overlap must not be negative")
		return
	}
	if req.MinScoreRatio < 0 || req.MinScoreRatio > 100 {
		writeError(w, http.StatusBadRequest, "min_score_ratio must be between 0 and 100")
		return
	}
	if req.MinOverlap == 0 {
		req.MinOverlap = defaultMinOverlap
	}
	if req.MinScoreRatio == 0 {
		req.MinScoreRatio = defaultMinScoreRatio
	}

	o, err := contigflow.AlignOverlap(req.Sequence1, req.Sequence2, req.MinOverlap, req.MinScoreRatio)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if o == nil {
		writeJSON(w, OverlapResponse{})
		return
	}

	writeJSON(w, OverlapResponse{
		Found:       true,
		Direction:   o.Direction,
		AlignedSeq1: o.AlignedSeq1,
		AlignedSeq2: o.AlignedSeq2,
		Score:       o.Score,
		ScoreRatio:  o.ScoreRatio,
		Weight:      o.Weight,
		Offset1:     o.Offset1,
		Offset2:     o.Offset2,
		CIGAR:       o.ToCIGAR(),
		Mismatches:  o.Mismatches,
		Gaps:        o.Gaps,
	})
}

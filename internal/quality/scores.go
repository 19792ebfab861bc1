// Package quality provides Phred quality score handling for sequencing reads.
//
// Phred quality scores are logarithmically related to base-calling error probabilities:
//
//	Q = -10 * log10(P_error)
//
// Scores are kept as small integers; padded positions inside a read get a
// quality derived from their neighbours by the read pool.
package quality

import (
	"fmt"
	"math"
)

// Constants for Phred scores
const (
	PhredMin = 0
	PhredMax = 93
)

// Quality thresholds
const (
	QLow    = 10 // 90% accuracy
	QMedium = 20 // 99% accuracy
	QHigh   = 30 // 99.9% accuracy
)

// QualityError is implemented by all errors returned from this package.
type QualityError interface {
	error
	IsQualityError()
}

// EmptyScoresError is returned when quality scores are empty.
type EmptyScoresError struct{}

func (e *EmptyScoresError) Error() string {
	return "quality scores cannot be empty"
}
func (e *EmptyScoresError) IsQualityError() {}

// ScoreOutOfRangeError is returned when a score is out of valid range.
type ScoreOutOfRangeError struct {
	Position int
	Score    int
}

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score %d at position %d is out of range [%d, %d]", e.Score, e.Position, PhredMin, PhredMax)
}
func (e *ScoreOutOfRangeError) IsQualityError() {}

// InvalidEncodingError is returned when a quality encoding character is invalid.
type InvalidEncodingError struct {
	Char rune
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("invalid encoding character: '%c'", e.Char)
}
func (e *InvalidEncodingError) IsQualityError() {}

// Scores represents quality scores for a sequencing read.
type Scores struct {
	Values []int
}

// New creates new quality scores from an array of integers.
func New(scores []int) (*Scores, error) {
	if len(scores) == 0 {
		return nil, &EmptyScoresError{}
	}

	for i, score := range scores {
		if score < PhredMin || score > PhredMax {
			return nil, &ScoreOutOfRangeError{Position: i, Score: score}
		}
	}

	values := make([]int, len(scores))
	copy(values, scores)

	return &Scores{Values: values}, nil
}

// FromBytes creates quality scores from raw (unencoded) Phred values.
func FromBytes(raw []byte) (*Scores, error) {
	values := make([]int, len(raw))
	for i, q := range raw {
		values[i] = int(q)
	}
	return New(values)
}

// FromPhred33 creates quality scores from a Phred+33 encoded string.
func FromPhred33(encoded string) (*Scores, error) {
	if len(encoded) == 0 {
		return nil, &EmptyScoresError{}
	}

	scores := make([]int, 0, len(encoded))
	for i, c := range encoded {
		if c < 33 || c > 126 {
			return nil, &InvalidEncodingError{Char: c}
		}

		score := int(c) - 33
		if score > PhredMax {
			return nil, &ScoreOutOfRangeError{Position: i, Score: score}
		}

		scores = append(scores, score)
	}

	return &Scores{Values: scores}, nil
}

// Len returns the number of quality scores.
func (s *Scores) Len() int {
	return len(s.Values)
}

// Average calculates the average quality score.
func (s *Scores) Average() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0
	for _, score := range s.Values {
		sum += score
	}
	return float64(sum) / float64(len(s.Values))
}

// Max returns the maximum quality score, or 0 when empty.
func (s *Scores) Max() int {
	max := 0
	for _, score := range s.Values {
		if score > max {
			max = score
		}
	}
	return max
}

// Slice returns the scores in [start, end).
func (s *Scores) Slice(start, end int) (*Scores, error) {
	if start < 0 || end > len(s.Values) || start >= end {
		return nil, fmt.Errorf("invalid slice [%d, %d) of %d scores", start, end, len(s.Values))
	}
	values := make([]int, end-start)
	copy(values, s.Values[start:end])
	return &Scores{Values: values}, nil
}

// Bytes returns the scores as raw Phred bytes.
func (s *Scores) Bytes() []byte {
	out := make([]byte, len(s.Values))
	for i, v := range s.Values {
		out[i] = byte(v)
	}
	return out
}

// ErrorProbability converts a Phred score to its error probability.
func ErrorProbability(score int) float64 {
	return math.Pow(10, -float64(score)/10)
}

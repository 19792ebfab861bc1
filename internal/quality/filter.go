package quality

// Filter holds the settings used to derive read clip boundaries from
// per-base qualities.
type Filter struct {
	MinLength        int     // Minimum clipped length for a read to be usable
	WindowSize       int     // Window size for sliding window trimming
	MinWindowQuality float64 // Minimum average quality in window
}

// DefaultFilter creates a filter with default settings.
func DefaultFilter() *Filter {
	return &Filter{
		MinLength:        20,
		WindowSize:       4,
		MinWindowQuality: 20.0,
	}
}

// SlidingWindowTrim returns the half-open interval of bases to keep. Both
// ends are trimmed until a window's average quality reaches the threshold.
func (f *Filter) SlidingWindowTrim(scores *Scores) (int, int) {
	n := scores.Len()
	if n < f.WindowSize || f.WindowSize <= 0 {
		return 0, n
	}

	trimStart := n
	for i := 0; i <= n-f.WindowSize; i++ {
		if f.windowAverage(scores, i) >= f.MinWindowQuality {
			trimStart = i
			break
		}
	}
	if trimStart == n {
		return 0, 0
	}

	trimEnd := trimStart
	for i := n - f.WindowSize; i >= trimStart; i-- {
		if f.windowAverage(scores, i) >= f.MinWindowQuality {
			trimEnd = i + f.WindowSize
			break
		}
	}

	return trimStart, trimEnd
}

func (f *Filter) windowAverage(scores *Scores, start int) float64 {
	sum := 0
	for j := 0; j < f.WindowSize; j++ {
		sum += scores.Values[start+j]
	}
	return float64(sum) / float64(f.WindowSize)
}

// Clip computes clip boundaries for a read. ok is false when the remaining
// stretch is shorter than MinLength.
func (f *Filter) Clip(scores *Scores) (left, right int, ok bool) {
	left, right = f.SlidingWindowTrim(scores)
	return left, right, right-left >= f.MinLength
}

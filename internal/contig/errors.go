package contig

import (
	"errors"
	"fmt"
)

// Code classifies why a candidate placement was refused.
type Code int

const (
	NoError Code = iota
	ZeroLength
	NotAttempted
	NoAlignment
	RelativeScoreDrop
	AlignmentRejectedByMinRelScore
	TemplateWrongDirection
	SegmentPlacementMismatch
	TemplateSizeTooSmall
	TemplateSizeTooLarge
	RepeatMaskMismatch
	SpecialShortReadRuleFailed
	ReferenceIdNotAllowed
	MaxCoverageReached
	// DangerZoneMismatch is reserved and never produced.
	DangerZoneMismatch
	ForcedGrowthNotReached
	GrowthNotAllowed
	// DelegatedByPathfinder is set by the assembly driver, not by Contig.
	DelegatedByPathfinder
	Unspecified
)

var codeNames = [...]string{
	"NoError",
	"ZeroLength",
	"NotAttempted",
	"NoAlignment",
	"RelativeScoreDrop",
	"AlignmentRejectedByMinRelScore",
	"TemplateWrongDirection",
	"SegmentPlacementMismatch",
	"TemplateSizeTooSmall",
	"TemplateSizeTooLarge",
	"RepeatMaskMismatch",
	"SpecialShortReadRuleFailed",
	"ReferenceIdNotAllowed",
	"MaxCoverageReached",
	"DangerZoneMismatch",
	"ForcedGrowthNotReached",
	"GrowthNotAllowed",
	"DelegatedByPathfinder",
	"Unspecified",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return codeNames[c]
}

// ContigError is the base error type for contig operations.
type ContigError interface {
	error
	IsContigError()
}

// Rejection is a recoverable refusal to place a read. Affected lists the
// ids of already placed reads implicated in the refusal. The contig is
// unchanged when a Rejection is returned.
type Rejection struct {
	Code     Code
	Affected []int
	// Cause is set for Unspecified rejections.
	Cause error
}

func (e *Rejection) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("read rejected: %s: %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("read rejected: %s (affected %v)", e.Code, e.Affected)
}

func (e *Rejection) Unwrap() error { return e.Cause }

func (e *Rejection) IsContigError() {}

// InvariantError reports a broken internal invariant. The contig must not
// be used after one is returned; the fields are enough to replay the call.
type InvariantError struct {
	Op         string
	Contig     string
	ReadID     int
	Xcut, Ycut int
	Offset1    int
	Offset2    int
	Detail     string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("contig %s: %s read %d: window [%d,%d) offsets %d/%d: %s",
		e.Contig, e.Op, e.ReadID, e.Xcut, e.Ycut, e.Offset1, e.Offset2, e.Detail)
}

func (e *InvariantError) IsContigError() {}

// AsRejection returns the Rejection wrapped in err, if any.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// IsFatal reports whether err means the contig is no longer usable.
func IsFatal(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

func reject(code Code, affected []int) *Rejection {
	return &Rejection{Code: code, Affected: affected}
}

package artifact

import "errors"

// Stage names the pipeline stage a mint failure belongs to.
//
// Stages are stable for programmatic handling. Callers should branch on
// Stage/RuleID rather than matching error strings; Error() text is for humans
// and may evolve.
type Stage string

const (
	StageValidate     Stage = "Validate"
	StageCanonicalize Stage = "Canonicalize"
	StageSeal         Stage = "Seal"
	StageAssemble     Stage = "Assemble"
	StageIdentify     Stage = "Identify"
	StageExtract      Stage = "Extract"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. MINT-VAL-003, MINT-ASM-101) naming the
// violated invariant. A caller always receives either a complete artifact or
// one Error telling it which stage failed, never a half-populated result.
type Error struct {
	Stage   Stage
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(stage Stage, ruleID, msg string) error {
	return &Error{Stage: stage, RuleID: ruleID, Message: msg}
}

func wrapError(stage Stage, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(stage, ruleID, msg)
	}
	return &Error{Stage: stage, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsStage reports whether err is (or wraps) an *Error from the given stage.
func IsStage(err error, stage Stage) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Stage == stage
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

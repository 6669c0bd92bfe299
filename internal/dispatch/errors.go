package dispatch

import "errors"

var (
	// ErrVerbNotAllowed indicates the policy's allowlist for the target
	// does not include the requested verb.
	ErrVerbNotAllowed = errors.New("verb not allowed by policy")

	// ErrTargetImmutable indicates the target matches an immutable
	// pattern and may never be mutated.
	ErrTargetImmutable = errors.New("target is immutable by policy")

	// ErrVerbNotRegistered indicates no handlers exist for the verb. This
	// is a wiring problem, reported distinctly from authorization
	// failures so "not allowed" is never confused with "not implemented".
	ErrVerbNotRegistered = errors.New("verb not registered")
)

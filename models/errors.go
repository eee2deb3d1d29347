package models

import "errors"

// Error kinds shared by every format engine. Detailed errors wrap one of these,
// so callers should test with errors.Is.
var (
	ErrInsufficientParticipants = errors.New("insufficient participants")
	ErrInvalidOperand           = errors.New("invalid operand")
	ErrPrecondPending           = errors.New("prior stage is not resolved")
	ErrNoHistory                = errors.New("no rounds recorded")
	ErrUnknownReference         = errors.New("unknown reference")
)

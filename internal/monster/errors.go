package monster

import (
	"errors"
	"fmt"

	"monsterScope/internal/clarity"
)

// Kind classifies a resolution failure.
type Kind int

const (
	// KindTransport means the API could not be reached or answered with a non-success status.
	KindTransport Kind = iota + 1
	// KindDecodeMismatch means a value was received but did not have the expected shape.
	KindDecodeMismatch
	// KindUnexpected is anything outside the anticipated decode branches.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecodeMismatch:
		return "decode_mismatch"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Operation names carried by Error.
const (
	OpOwner    = "owner"
	OpMetadata = "metadata"
	OpAlive    = "alive"
	OpFeed     = "feed"
	OpOwnedIDs = "owned-ids"
	OpResolve  = "resolve"
)

// Error is a typed resolution failure.
type Error struct {
	Kind      Kind
	Op        string
	ID        uint64
	Principal string
	Err       error
}

func (e *Error) Error() string {
	if e.Op == OpOwnedIDs {
		return fmt.Sprintf("could not retrieve owned-asset list for %s: %v", e.Principal, e.Err)
	}
	return fmt.Sprintf("%s monster %d: %s: %v", e.Op, e.ID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of the first *Error in err's chain, or 0 when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// BatchError lists the ids whose resolution failed with an unexpected fault.
type BatchError struct {
	Failed []*Error
}

func (e *BatchError) Error() string {
	if len(e.Failed) == 1 {
		return fmt.Sprintf("resolve batch: %v", e.Failed[0])
	}
	return fmt.Sprintf("resolve batch: %d ids failed, first: %v", len(e.Failed), e.Failed[0])
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, failed := range e.Failed {
		errs = append(errs, failed)
	}
	return errs
}

// IDs returns the failed ids in input order.
func (e *BatchError) IDs() []uint64 {
	ids := make([]uint64, 0, len(e.Failed))
	for _, failed := range e.Failed {
		ids = append(ids, failed.ID)
	}
	return ids
}

func classify(op string, id uint64, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		copied := *typed
		return &copied
	}

	var (
		decodeErr *clarity.DecodeError
		mismatch  *clarity.MismatchError
		missing   *clarity.MissingFieldError
	)
	kind := KindTransport
	if errors.As(err, &decodeErr) || errors.As(err, &mismatch) || errors.As(err, &missing) {
		kind = KindDecodeMismatch
	}
	return &Error{Kind: kind, Op: op, ID: id, Err: err}
}

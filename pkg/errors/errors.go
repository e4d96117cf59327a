package errors

import "errors"

// Domain errors for the benefits platform. Handlers map these to HTTP
// status codes; services return them verbatim and never retry on them.
var (
	// ErrMalformedCode means the scanned payload could not be parsed or its
	// integrity marker did not match. Distinct from ErrNotFound: a payload
	// can be well-formed yet reference a redemption that does not exist.
	ErrMalformedCode = errors.New("malformed redemption code")

	// ErrNotFound covers any referenced entity that is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned on any authorization failure. It carries no
	// detail about whether the target entity exists.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyUsed means the redemption was validated before this call.
	// The caller is told explicitly that no action occurred.
	ErrAlreadyUsed = errors.New("redemption already used")

	// ErrOutOfStock and ErrInactive reject redemption creation.
	ErrOutOfStock = errors.New("benefit out of stock")
	ErrInactive   = errors.New("benefit is not active")

	// ErrInvalidImage means an uploaded file could not be decoded as an
	// image in a supported format.
	ErrInvalidImage = errors.New("invalid image")

	// ErrSlotTaken means another principal booked the appointment slot first.
	ErrSlotTaken = errors.New("appointment slot already booked")

	// ErrAlreadyDecided means a moderation decision was already recorded.
	ErrAlreadyDecided = errors.New("announcement already decided")

	// ErrUnavailable means the backing store was unreachable. Safe for the
	// caller to retry; the server itself never retries a mutation.
	ErrUnavailable = errors.New("service unavailable")
)

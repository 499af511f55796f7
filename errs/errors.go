// Package errs defines the sentinel errors returned by the dif module.
//
// Input errors (malformed sizes, unknown enum values) are returned as one
// of the sentinels below, typically wrapped with fmt.Errorf("%w: ...") to
// attach the offending value. Verification failures are not modeled as
// errors at all — they are reported through dif.ErrorRecord, a value the
// caller inspects, per the package's error-handling design.
package errs

import "errors"

var (
	// ErrInvalidBlockSize is returned when block_size is not strictly
	// greater than md_size, or is zero.
	ErrInvalidBlockSize = errors.New("dif: invalid block size")

	// ErrInvalidMDSize is returned when md_size is smaller than the PI
	// size required by the configured format while any check flag is set.
	ErrInvalidMDSize = errors.New("dif: invalid metadata size")

	// ErrInvalidPIFormat is returned for an unrecognized PI format value.
	ErrInvalidPIFormat = errors.New("dif: invalid PI format")

	// ErrInvalidType is returned for an unrecognized DIF type value.
	ErrInvalidType = errors.New("dif: invalid DIF type")

	// ErrSGLSizeMismatch is returned when a scatter-gather list's total
	// length does not match num_blocks*block_size (interleaved mode) or
	// num_blocks*guard_interval / num_blocks*md_size (DIX mode).
	ErrSGLSizeMismatch = errors.New("dif: scatter-gather list size mismatch")

	// ErrShortIovecArray is returned by SetMDInterleaveIovs when the
	// caller-supplied iovec array is too small to express the requested
	// range (-ENOMEM in the reference implementation).
	ErrShortIovecArray = errors.New("dif: output iovec array too small")

	// ErrNoMetadata is returned by InjectError (and its DIX twin) when
	// the context has no metadata region to corrupt (-ENOTSUP).
	ErrNoMetadata = errors.New("dif: no metadata region configured")

	// ErrNoInjectFlags is returned by InjectError when the caller passed
	// an empty flag set, so there is nothing to flip.
	ErrNoInjectFlags = errors.New("dif: no injection flags specified")

	// ErrStreamInProgress is returned when a stream call starts while
	// the context's in-progress flag from another stream call is still
	// set; the context is not re-entrant.
	ErrStreamInProgress = errors.New("dif: stream context is not re-entrant")
)

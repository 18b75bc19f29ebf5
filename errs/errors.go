// Package errs defines the sentinel errors shared by the recorder packages.
//
// Errors returned by the encoder, engine and decoder wrap one of these values,
// so callers can classify failures with errors.Is:
//
//	if errors.Is(err, errs.ErrEmptyWindowSlot) {
//	    // the rank's stream is unreliable from here on
//	}
package errs

import "errors"

// Configuration errors.
var (
	ErrInvalidMode           = errors.New("invalid compression mode")
	ErrInvalidTimeResolution = errors.New("time resolution must be positive")
	ErrInvalidBufferSize     = errors.New("buffer size must be positive")
	ErrInvalidRank           = errors.New("invalid rank")
)

// Recording errors.
var (
	ErrNotRecording     = errors.New("engine is not recording")
	ErrBufferReleased   = errors.New("staging buffer already released")
	ErrEncoderClosed    = errors.New("encoder already closed")
	ErrUnknownFunction  = errors.New("function id outside of function table")
	ErrTooManyFunctions = errors.New("function table exceeds 256 entries")
)

// Format errors, reported while decoding.
var (
	ErrUnexpectedEOF      = errors.New("unexpected end of stream inside record")
	ErrMissingNewline     = errors.New("record argument tail is not newline terminated")
	ErrInvalidSlot        = errors.New("window slot index out of range")
	ErrEmptyWindowSlot    = errors.New("delta record references an empty window slot")
	ErrMaskOutOfRange     = errors.New("delta mask references an argument beyond the slot's argument count")
	ErrDiffArgMismatch    = errors.New("delta payload argument count does not match mask")
	ErrMalformedTextLine  = errors.New("malformed text record line")
	ErrInvalidMetadata    = errors.New("invalid metadata")
	ErrUnknownFilenameID  = errors.New("filename id not found in filename table")
	ErrInvalidFilenameArg = errors.New("filename argument is not an integer id")
)

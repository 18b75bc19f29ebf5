package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpcrec/recorder/errs"
)

type CompressionMode int32

const (
	ModeText     CompressionMode = 0 // ModeText writes plain text lines.
	ModeBinary   CompressionMode = 1 // ModeBinary writes a fixed binary header plus a text argument tail.
	ModeZlib     CompressionMode = 2 // ModeZlib streams text lines through a deflate (zlib) compressor.
	ModeRecorder CompressionMode = 3 // ModeRecorder writes binary records with peephole delta compression.
	ModeZstd     CompressionMode = 4 // ModeZstd streams text lines through a zstd compressor.
	ModeS2       CompressionMode = 5 // ModeS2 streams text lines through an s2 compressor.
	ModeLZ4      CompressionMode = 6 // ModeLZ4 streams text lines through an lz4 frame compressor.

	// DefaultMode is used when no mode is configured.
	DefaultMode = ModeZlib
	// FallbackMode replaces unsupported mode values.
	FallbackMode = ModeRecorder
)

// Wire constants shared by the encoders, the metadata layouts and the decoder.
const (
	WindowSize      = 3        // number of records kept in the peephole sliding window
	MaxFunctions    = 256      // function ids are persisted in one byte
	MaxDeltaArgs    = 7        // records with more arguments are never delta encoded
	HeaderSize      = 10       // status(1) + tstart(4) + tend(4) + function/slot(1)
	DefaultTimeRes  = 0.000001 // default time resolution in seconds
	MissingArgument = "???"    // written in place of an absent argument

	GlobalMetadataFile = "recorder.mt"
	LocalMetadataExt   = ".mt"
	TraceExt           = ".itf"
	DecodedExt         = ".txt"
)

func (m CompressionMode) String() string {
	switch m {
	case ModeText:
		return "Text"
	case ModeBinary:
		return "Binary"
	case ModeZlib:
		return "Zlib"
	case ModeRecorder:
		return "Recorder"
	case ModeZstd:
		return "Zstd"
	case ModeS2:
		return "S2"
	case ModeLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether m is one of the known modes.
func (m CompressionMode) IsValid() bool {
	return m >= ModeText && m <= ModeLZ4
}

// IsBinary reports whether records are written with the fixed binary header.
func (m CompressionMode) IsBinary() bool {
	return m == ModeBinary || m == ModeRecorder
}

// IsStream reports whether the text records pass through a streaming compressor.
func (m CompressionMode) IsStream() bool {
	switch m {
	case ModeZlib, ModeZstd, ModeS2, ModeLZ4:
		return true
	default:
		return false
	}
}

// Normalize returns m when it is valid and FallbackMode otherwise.
func (m CompressionMode) Normalize() CompressionMode {
	if m.IsValid() {
		return m
	}

	return FallbackMode
}

// ParseCompressionMode accepts a mode number ("3") or a case-insensitive mode name ("recorder").
func ParseCompressionMode(s string) (CompressionMode, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := CompressionMode(n) //nolint:gosec
		if !m.IsValid() {
			return m, fmt.Errorf("%w: %d", errs.ErrInvalidMode, n)
		}

		return m, nil
	}

	for m := ModeText; m <= ModeLZ4; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}

	return FallbackMode, fmt.Errorf("%w: %q", errs.ErrInvalidMode, s)
}

// UnmarshalText accepts the same forms as ParseCompressionMode.
func (m *CompressionMode) UnmarshalText(text []byte) error {
	mode, err := ParseCompressionMode(string(text))
	if err != nil {
		return err
	}
	*m = mode

	return nil
}

// MarshalText writes the mode name.
func (m CompressionMode) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(m.String())), nil
}

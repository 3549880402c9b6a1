package webpdec

import (
	stderrors "errors"

	"github.com/deepteams/webpdec/internal/bitio"
	"github.com/deepteams/webpdec/internal/container"
	"github.com/deepteams/webpdec/internal/lossy"
)

// The decoder's error kinds form a closed set. Callers distinguish
// failures with errors.Is against the sentinel values below (errors.As for
// the two parameterised kinds); messages carry context but are not part of
// the contract. Every error is terminal for the current call; the Decoder
// itself stays usable.
var (
	// Container problems.
	ErrInvalidSignature = container.ErrInvalidSignature
	ErrInvalidChunkSize = container.ErrInvalidChunkSize
	ErrChunkMissing     = container.ErrChunkMissing
	ErrBufferUnderrun   = container.ErrBufferUnderrun

	// Recognised but out-of-scope subformats.
	ErrLosslessUnsupported = container.ErrLosslessUnsupported
	ErrExtendedUnsupported = container.ErrExtendedUnsupported

	// VP8 frame header.
	ErrNonKeyframe      = container.ErrNonKeyframe
	ErrInvalidImageSize = container.ErrInvalidImageSize
	ErrVersionNumber    = lossy.ErrVersionNumber

	// Semantic header and body failures.
	ErrColorSpace        = lossy.ErrColorSpace
	ErrLumaModeInvalid   = lossy.ErrLumaModeInvalid
	ErrChromaModeInvalid = lossy.ErrChromaModeInvalid
	ErrIntraModeInvalid  = lossy.ErrIntraModeInvalid
	ErrInvalidParameter  = lossy.ErrInvalidParameter

	// Entropy decoder and stream exhaustion.
	ErrBitStream         = bitio.ErrBitStream
	ErrNotEnoughInitData = lossy.ErrNotEnoughInitData

	// Caller-facing sizing failures.
	ErrImageTooLarge       = stderrors.New("webpdec: output buffer length mismatch")
	ErrFrameOutsideImage   = stderrors.New("webpdec: frame outside image")
	ErrMemoryLimitExceeded = stderrors.New("webpdec: output size exceeds address space")
)

// ChunkHeaderError reports an unrecognised first sub-chunk; match with
// errors.As.
type ChunkHeaderError = container.ChunkHeaderError

// VP8MagicError reports a VP8 chunk with a bad start code; match with
// errors.As.
type VP8MagicError = container.VP8MagicError

package codec

import "errors"

// Sentinel errors. Decode failures are signals to the dispatcher, which
// applies policy (backtrack or abort); they are returned, never raised
// as control flow.
var (
	// Decode failures — the layer bytes are structurally invalid.
	ErrPacketTooShort  = errors.New("codec: packet too short")
	ErrBadVersion      = errors.New("codec: bad protocol version field")
	ErrBadHeaderLength = errors.New("codec: bad header length field")
	ErrBadLength       = errors.New("codec: inconsistent length accounting")
	ErrBadEthertype    = errors.New("codec: unrecognized ethertype")

	// Dispatch errors.
	ErrUnknownLinkType = errors.New("codec: no codec claims the link type")
	ErrDuplicateClaim  = errors.New("codec: protocol id already claimed")

	// Encode failures — always fatal for the encode operation; the
	// caller must discard the partially built buffer.
	ErrBufferOverflow = errors.New("codec: encode buffer capacity exceeded")

	// Update failures.
	ErrNotRepresentable = errors.New("codec: layer can no longer be represented")
)

package codec

// TTL bounds used by the reverse-direction TTL derivation.
const (
	MinTTL uint8 = 64
	MaxTTL uint8 = 255
)

// EncodeFlags is the 64-bit flag word passed through every encode call.
// The low 32 bits double as a signed sequence/ack adjustment when
// EncFlagSeq is set.
type EncodeFlags uint64

const (
	EncFlagFwd    EncodeFlags = 0x8000000000000000 // send in forward direction
	EncFlagSeq    EncodeFlags = 0x4000000000000000 // value bits hold a seq adjustment
	EncFlagID     EncodeFlags = 0x2000000000000000 // use randomized IP id
	EncFlagNet    EncodeFlags = 0x1000000000000000 // stop after innermost network layer
	EncFlagDef    EncodeFlags = 0x0800000000000000 // stop before innermost ip options / frag header
	EncFlagRaw    EncodeFlags = 0x0400000000000000 // omit outer link-layer header (raw ip)
	EncFlagPay    EncodeFlags = 0x0200000000000000 // payload attached
	EncFlagPsh    EncodeFlags = 0x0100000000000000 // set TCP PUSH flag
	EncFlagFin    EncodeFlags = 0x0080000000000000 // set TCP FIN flag
	EncFlagTTL    EncodeFlags = 0x0040000000000000 // TTL override requested
	EncFlagInline EncodeFlags = 0x0020000000000000 // inline mode
	EncFlagVal    EncodeFlags = 0x00000000FFFFFFFF // seq/ack adjustment bits
)

// Forward reports whether the encode runs in the original packet's
// direction.
func (f EncodeFlags) Forward() bool { return f&EncFlagFwd != 0 }

// Reverse reports whether the encode builds a reply.
func (f EncodeFlags) Reverse() bool { return !f.Forward() }

// ProtoUnset marks EncState.NextProto as not set.
const ProtoUnset uint8 = 0xFF

// EncState is the per-encode-call context, constructed once per full
// inside-out pass and passed by reference through every layer. Only
// NextEthertype and NextProto are mutable: a codec sets them to steer
// the next outward encode step.
type EncState struct {
	IPAPI *IPAPI // for pseudo-header checksums
	Flags EncodeFlags
	Dsize uint16 // payload size, for TCP sequence numbers

	NextEthertype uint16
	NextProto     uint8

	TTL uint8
}

// NewEncState builds the context for one encode operation.
func NewEncState(api *IPAPI, flags EncodeFlags, proto uint8, ttl uint8, dsize uint16) EncState {
	return EncState{
		IPAPI:     api,
		Flags:     flags,
		Dsize:     dsize,
		NextProto: proto,
		TTL:       ttl,
	}
}

func (es *EncState) NextProtoSet() bool { return es.NextProto != ProtoUnset }

func (es *EncState) EthertypeSet() bool { return es.NextEthertype != 0 }

// GetTTL derives the TTL field for a response layer from the original
// layer's TTL. Forward: the override TTL when requested, else the layer
// TTL unchanged. Reverse: the override when requested, else MaxTTL minus
// the layer TTL, clamped up to MinTTL either way. The clamp applies even
// to an explicit override below MinTTL.
func (es *EncState) GetTTL(lyrTTL uint8) uint8 {
	if es.Flags.Forward() {
		if es.Flags&EncFlagTTL != 0 {
			return es.TTL
		}
		return lyrTTL
	}

	var ttl uint8
	if es.Flags&EncFlagTTL != 0 {
		ttl = es.TTL
	} else {
		ttl = MaxTTL - lyrTTL
	}
	if ttl < MinTTL {
		ttl = MinTTL
	}
	return ttl
}

// SeqAdjust returns the sequence adjustment carried in the value bits,
// or zero when EncFlagSeq is not set.
func (es *EncState) SeqAdjust() uint32 {
	if es.Flags&EncFlagSeq == 0 {
		return 0
	}
	return uint32(es.Flags & EncFlagVal)
}

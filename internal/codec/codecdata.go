package codec

// Per-layer codec flags. UnsureEncap and EncapLayer drive the
// dispatcher's backtrack policy: a codec that cannot be certain the next
// bytes are a valid inner protocol sets CodecEncapLayer; the dispatcher
// then sets CodecUnsureEncap for the one next layer only, and if that
// layer's decode fails it backs out to the marked boundary instead of
// surfacing a decode error.
const (
	CodecDF          uint16 = 0x0001 // don't-fragment seen
	CodecUnsureEncap uint16 = 0x0002 // set by the dispatcher for the next layer only
	CodecSaveLayer   uint16 = 0x0004 // do not set directly; use CodecEncapLayer
	CodecEncapLayer  uint16 = CodecSaveLayer | CodecUnsureEncap

	CodecRoutingSeen     uint16 = 0x0008 // ip6 routing extension order check
	CodecIPOptRRSeen     uint16 = 0x0010
	CodecIPOptRtrAltSeen uint16 = 0x0020
	CodecIPOptLenThree   uint16 = 0x0040
	CodecTeredoSeen      uint16 = 0x0080
	CodecStreamRebuilt   uint16 = 0x0100

	CodecIPOptFlags uint16 = CodecIPOptRRSeen | CodecIPOptRtrAltSeen | CodecIPOptLenThree
)

// Protocol-presence bits accumulated across the decode walk.
const (
	ProtoBitNone   uint16 = 0x0000
	ProtoBitIP     uint16 = 0x0001
	ProtoBitARP    uint16 = 0x0002
	ProtoBitTCP    uint16 = 0x0004
	ProtoBitUDP    uint16 = 0x0008
	ProtoBitICMP   uint16 = 0x0010
	ProtoBitTeredo uint16 = 0x0020
	ProtoBitGTP    uint16 = 0x0040
	ProtoBitMPLS   uint16 = 0x0080
	ProtoBitVLAN   uint16 = 0x0100
	ProtoBitEth    uint16 = 0x0200
	ProtoBitIP6Ext uint16 = 0x2000
	ProtoBitOther  uint16 = 0x8000
	ProtoBitAll    uint16 = 0xFFFF
)

// CodecData is the per-layer transient decode result. It is constructed
// fresh before each layer's decode call with NextProtID seeded to the
// protocol id that selected the codec. The persistent counters
// (IPLayerCnt and the three ip6 extension fields) accumulate across the
// whole packet and are reset only when the next packet starts.
type CodecData struct {
	NextProtID   uint16 // protocol of the next layer
	LyrLen       uint16 // validated length of this layer
	InvalidBytes uint16 // trailing garbage between LyrLen and the next layer

	ProtoBits  uint16
	CodecFlags uint16

	IPLayerCnt        uint8
	IP6ExtensionCount uint8
	CurrIP6Extension  uint8
	IP6CsumProto      uint8
}

// NewCodecData seeds a fresh per-layer state with the protocol id that
// selected the codec about to run.
func NewCodecData(proto uint16) CodecData {
	return CodecData{NextProtID: proto}
}

// NextLayer seeds the state for the following layer, carrying the
// persistent counters and the accumulated proto bits forward while
// clearing every decode-scoped field.
func (cd *CodecData) NextLayer() CodecData {
	return CodecData{
		NextProtID:        cd.NextProtID,
		ProtoBits:         cd.ProtoBits,
		IPLayerCnt:        cd.IPLayerCnt,
		IP6ExtensionCount: cd.IP6ExtensionCount,
		CurrIP6Extension:  cd.CurrIP6Extension,
		IP6CsumProto:      cd.IP6CsumProto,
	}
}

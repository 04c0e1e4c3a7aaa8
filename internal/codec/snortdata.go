package codec

import "net/netip"

// PktType classifies a packet by its innermost recognized protocol.
// Zero is reserved for unknown so a freshly reset SnortData is
// unambiguous.
type PktType uint8

const (
	PktTypeUnknown PktType = iota
	PktTypeIP
	PktTypeTCP
	PktTypeUDP
	PktTypeICMP4
	PktTypeICMP6
	PktTypeARP
)

func (t PktType) String() string {
	switch t {
	case PktTypeIP:
		return "ip"
	case PktTypeTCP:
		return "tcp"
	case PktTypeUDP:
		return "udp"
	case PktTypeICMP4:
		return "icmp4"
	case PktTypeICMP6:
		return "icmp6"
	case PktTypeARP:
		return "arp"
	default:
		return "unknown"
	}
}

// Decode flags. The low three bits carry the PktType sub-field; use
// SetPktType/GetPktType, never the bits directly. Everything above is an
// error or context flag.
const (
	pktTypeMask uint16 = 0x0007

	DecodeErrCksumIP   uint16 = 0x0008
	DecodeErrCksumTCP  uint16 = 0x0010
	DecodeErrCksumUDP  uint16 = 0x0020
	DecodeErrCksumICMP uint16 = 0x0040
	DecodeErrCksumAny  uint16 = 0x0080
	DecodeErrBadTTL    uint16 = 0x0100

	DecodeErrFlags uint16 = DecodeErrCksumIP | DecodeErrCksumTCP |
		DecodeErrCksumUDP | DecodeErrCksumICMP |
		DecodeErrCksumAny | DecodeErrBadTTL

	DecodePktTrust uint16 = 0x0200 // whitelist this packet
	DecodeFrag     uint16 = 0x0400 // fragmented packet
	DecodeMF       uint16 = 0x0800 // more fragments follow
)

// IPAPI is the accessor over the innermost recognized IP header. It
// keeps the convenience addressing used for pseudo-header checksums and
// port/flow bookkeeping without copying header bytes.
type IPAPI struct {
	src, dst netip.Addr
	ttl      uint8
	proto    uint8
	version  uint8
}

// Reset clears the accessor to the inactive state.
func (a *IPAPI) Reset() { *a = IPAPI{} }

// Set records the active IP layer's addressing.
func (a *IPAPI) Set(version uint8, src, dst netip.Addr, proto, ttl uint8) {
	a.version = version
	a.src = src
	a.dst = dst
	a.proto = proto
	a.ttl = ttl
}

func (a *IPAPI) Active() bool      { return a.version != 0 }
func (a *IPAPI) IsIP4() bool       { return a.version == 4 }
func (a *IPAPI) IsIP6() bool       { return a.version == 6 }
func (a *IPAPI) Src() netip.Addr   { return a.src }
func (a *IPAPI) Dst() netip.Addr   { return a.dst }
func (a *IPAPI) Proto() uint8      { return a.proto }
func (a *IPAPI) TTL() uint8        { return a.ttl }

// MPLSHdr is the outermost MPLS stack entry, kept by value.
type MPLSHdr struct {
	Label uint32
	Exp   uint8
	BOS   uint8
	TTL   uint8
}

// SnortData is the per-packet accumulated convenience state. It is
// reset once at the start of decoding a packet; each layer's decode
// call adds the header views, ports and flags relevant to its protocol.
// At most one of the three transport views is non-nil at a time.
type SnortData struct {
	TCPH  TCPHdr
	UDPH  UDPHdr
	ICMPH ICMPHdr

	SrcPort uint16
	DstPort uint16

	// DecodeFlags packs the PktType sub-field into the low three bits;
	// the remainder is error/context flags.
	DecodeFlags uint16

	IPAPI IPAPI
	MPLS  MPLSHdr
}

// Reset clears all views and flags. PktType comes back as unknown.
func (sd *SnortData) Reset() {
	sd.TCPH = nil
	sd.UDPH = nil
	sd.ICMPH = nil
	sd.SrcPort = 0
	sd.DstPort = 0
	sd.DecodeFlags = 0
	sd.IPAPI.Reset()
	sd.MPLS = MPLSHdr{}
}

// SetPktType stores the packet type in the low bits of the decode
// flags without disturbing the rest.
func (sd *SnortData) SetPktType(t PktType) {
	sd.DecodeFlags = (sd.DecodeFlags &^ pktTypeMask) | uint16(t)
}

// GetPktType extracts the packet type sub-field.
func (sd *SnortData) GetPktType() PktType {
	return PktType(sd.DecodeFlags & pktTypeMask)
}

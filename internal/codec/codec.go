// Package codec defines the per-layer codec contract and the state
// structures threaded through every decode and encode call.
package codec

import (
	"github.com/google/gopacket/layers"

	"github.com/StartiOne/snort3/internal/log"
)

// PktMax is the worst-case response packet bound: Ethernet header (14) +
// VLAN tag (4) + Ethernet MTU (1500) + maximum IP payload (65535). Encode
// buffers sized to PktMax can hold any reassembled datagram at the
// innermost layer.
const PktMax = 14 + 4 + 1500 + 65535

// RawData is an immutable view over the bytes of one layer being decoded.
// Data runs from the start of the current layer to the end of the packet.
// The caller owns the backing slice; codecs must not retain it past the
// decode call.
type RawData struct {
	Data []byte
	Len  uint32
}

// NewRawData wraps a frame slice for decoding.
func NewRawData(data []byte) RawData {
	return RawData{Data: data, Len: uint32(len(data))}
}

// Codec is the polymorphic unit of work, one implementation per protocol.
//
// Decode must bounds-check every field read: raw holds untrusted bytes.
// On success it sets cd.NextProtID to the protocol of the next layer
// (or ProtoFinishedDecode), cd.LyrLen to the validated length of this
// layer, and optionally cd.InvalidBytes for trailing garbage between the
// validated length and where the next layer starts. It also fills in the
// relevant SnortData convenience fields. A returned error means the bytes
// are structurally invalid for this protocol; checksum and TTL anomalies
// are never errors, they are recorded as decode flags and decoding
// continues.
//
// Encode is called once per saved layer, innermost first. rawLen is the
// LyrLen this codec produced during decode; the codec must not
// re-validate it. Every encoder must call buf.Allocate before writing.
type Codec interface {
	Name() string

	// DataLinkTypes declares the link-layer types a root codec claims.
	DataLinkTypes() []layers.LinkType
	// ProtocolIDs declares the protocol ids and ethertypes this codec
	// claims. Called once at registration, never per packet.
	ProtocolIDs() []uint16

	Decode(raw RawData, cd *CodecData, sd *SnortData) error
	Encode(rawIn []byte, rawLen uint16, es *EncState, buf *Buffer) error

	// Log writes a human-readable rendering of the layer. It must not
	// mutate decode state.
	Log(tl *log.TextLog, rawPkt []byte, p *Packet)

	// Update recomputes the layer length after an upstream mutation and
	// returns the new length.
	Update(p *Packet, lyr *Layer) (uint32, error)

	// Format fixes up layer-specific state when a decoded packet is
	// cloned for retransmission.
	Format(flags EncodeFlags, orig, clone *Packet, lyr *Layer)
}

// BaseCodec supplies default no-op implementations for the optional
// codec operations. Protocol codecs embed it and override what they need.
type BaseCodec struct {
	name string
}

func NewBaseCodec(name string) BaseCodec {
	return BaseCodec{name: name}
}

func (b *BaseCodec) Name() string { return b.name }

func (b *BaseCodec) DataLinkTypes() []layers.LinkType { return nil }

func (b *BaseCodec) ProtocolIDs() []uint16 { return nil }

func (b *BaseCodec) Encode(rawIn []byte, rawLen uint16, es *EncState, buf *Buffer) error {
	return nil
}

func (b *BaseCodec) Log(tl *log.TextLog, rawPkt []byte, p *Packet) {}

func (b *BaseCodec) Update(p *Packet, lyr *Layer) (uint32, error) {
	return uint32(lyr.Length), nil
}

func (b *BaseCodec) Format(flags EncodeFlags, orig, clone *Packet, lyr *Layer) {}

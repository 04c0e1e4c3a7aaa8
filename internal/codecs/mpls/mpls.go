// Package mpls implements MPLS label stack decoding. MPLS carries no
// protocol field for its payload, so the next layer is guessed from the
// first payload nibble and the layer marks itself an uncertain
// encapsulation boundary: if the guessed inner decode fails, the
// dispatcher backs out and treats the bytes as opaque payload.
package mpls

import (
	"encoding/binary"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const entryLen = 4

var API = &codec.CodecAPI{
	Name:    "mpls",
	Help:    "support for multiprotocol label switching",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		return &MPLS{BaseCodec: codec.NewBaseCodec("mpls")}
	},
	Dtor: func(codec.Codec) {},
}

type MPLS struct {
	codec.BaseCodec
}

func (m *MPLS) ProtocolIDs() []uint16 {
	return []uint16{codec.EthertypeMPLSUnicast, codec.EthertypeMPLSMulticast}
}

func (m *MPLS) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	var off uint32
	for {
		if off+entryLen > raw.Len {
			return codec.ErrPacketTooShort
		}
		entry := binary.BigEndian.Uint32(raw.Data[off : off+entryLen])
		if off == 0 {
			sd.MPLS = codec.MPLSHdr{
				Label: entry >> 12,
				Exp:   uint8(entry>>9) & 0x7,
				BOS:   uint8(entry>>8) & 0x1,
				TTL:   uint8(entry),
			}
		}
		off += entryLen
		if entry&0x100 != 0 { // bottom of stack
			break
		}
	}

	cd.LyrLen = uint16(off)
	cd.ProtoBits |= codec.ProtoBitMPLS

	if off >= raw.Len {
		cd.NextProtID = codec.ProtoFinishedDecode
		return nil
	}

	switch raw.Data[off] >> 4 {
	case 4:
		cd.NextProtID = codec.EthertypeIPv4
	case 6:
		cd.NextProtID = codec.EthertypeIPv6
	default:
		cd.NextProtID = codec.ProtoFinishedDecode
		return nil
	}
	// guessed, not known
	cd.CodecFlags |= codec.CodecEncapLayer
	return nil
}

func (m *MPLS) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(uint32(rawLen))
	if !ok {
		return codec.ErrBufferOverflow
	}
	copy(region, rawIn[:rawLen])
	es.NextEthertype = codec.EthertypeMPLSUnicast
	return nil
}

func (m *MPLS) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	tl.Print("label:%d exp:%d bos:%d ttl:%d entries:%d",
		p.Snort.MPLS.Label, p.Snort.MPLS.Exp, p.Snort.MPLS.BOS,
		p.Snort.MPLS.TTL, len(rawPkt)/entryLen)
}

package ipv6

import (
	"encoding/binary"
	"fmt"

	"github.com/StartiOne/snort3/internal/codec"
)

// NewExtAPI builds a registration record for one IPv6 extension header
// type. Each extension gets its own codec instance so the encode path
// knows which header it owns without re-parsing.
func NewExtAPI(name string, ext uint8) *codec.CodecAPI {
	return &codec.CodecAPI{
		Name:    name,
		Help:    fmt.Sprintf("support for ipv6 extension header %d", ext),
		Version: "0.1.0",
		Ctor: func(cfg map[string]any) codec.Codec {
			return &Ext{BaseCodec: codec.NewBaseCodec(name), ext: ext}
		},
		Dtor: func(codec.Codec) {},
	}
}

// HopOptsAPI, RoutingAPI, FragAPI and DstOptsAPI register the four
// extension headers the decode walk accounts for.
var (
	HopOptsAPI = NewExtAPI("ipv6_hop_opts", codec.IPProtoHopOpts)
	RoutingAPI = NewExtAPI("ipv6_routing", codec.IPProtoRouting)
	FragAPI    = NewExtAPI("ipv6_frag", codec.IPProtoFragment)
	DstOptsAPI = NewExtAPI("ipv6_dst_opts", codec.IPProtoDstOpts)
)

type Ext struct {
	codec.BaseCodec
	ext uint8
}

func (e *Ext) ProtocolIDs() []uint16 {
	return []uint16{uint16(e.ext)}
}

func (e *Ext) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < 8 {
		return codec.ErrPacketTooShort
	}

	next := raw.Data[0]

	var hdrLen uint32
	if e.ext == codec.IPProtoFragment {
		hdrLen = 8
		fragWord := binary.BigEndian.Uint16(raw.Data[2:4])
		if fragWord&0x0001 != 0 {
			sd.DecodeFlags |= codec.DecodeMF
		}
		if fragWord != 0 {
			sd.DecodeFlags |= codec.DecodeFrag
		}
		if fragWord>>3 != 0 {
			// non-first fragment: the rest is opaque
			cd.LyrLen = uint16(hdrLen)
			cd.NextProtID = codec.ProtoFinishedDecode
			e.account(cd, next)
			return nil
		}
	} else {
		hdrLen = (uint32(raw.Data[1]) + 1) * 8
		if hdrLen > raw.Len {
			return codec.ErrPacketTooShort
		}
	}

	if e.ext == codec.IPProtoRouting {
		cd.CodecFlags |= codec.CodecRoutingSeen
	}

	cd.LyrLen = uint16(hdrLen)
	if next == codec.IPProtoNoNext {
		cd.NextProtID = codec.ProtoFinishedDecode
	} else {
		cd.NextProtID = uint16(next)
	}
	e.account(cd, next)
	return nil
}

func (e *Ext) account(cd *codec.CodecData, next uint8) {
	cd.ProtoBits |= codec.ProtoBitIP6Ext
	cd.IP6ExtensionCount++
	cd.CurrIP6Extension = e.ext
	if !isExtension(next) {
		cd.IP6CsumProto = next
	}
}

func isExtension(proto uint8) bool {
	switch proto {
	case codec.IPProtoHopOpts, codec.IPProtoRouting,
		codec.IPProtoFragment, codec.IPProtoDstOpts:
		return true
	}
	return false
}

// Encode copies the extension bytes through, except when the caller
// asked to stop before the innermost fragment/option headers.
func (e *Ext) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	if es.Flags&codec.EncFlagDef != 0 {
		return nil
	}
	region, ok := buf.Allocate(uint32(rawLen))
	if !ok {
		return codec.ErrBufferOverflow
	}
	copy(region, rawIn[:rawLen])
	es.NextProto = e.ext
	return nil
}

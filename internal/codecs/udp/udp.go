// Package udp implements the UDP codec. When Teredo probing is on, a
// datagram to or from port 3544 is treated as a possible IPv6 tunnel:
// the layer marks an uncertain encapsulation boundary and the
// dispatcher falls back to opaque payload if the inner decode fails.
package udp

import (
	"encoding/binary"

	"github.com/mitchellh/mapstructure"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const headerLen = 8

const teredoPort = 3544

type Options struct {
	VerifyChecksums bool `mapstructure:"verify_checksums"`
	EnableTeredo    bool `mapstructure:"enable_teredo"`
}

var API = &codec.CodecAPI{
	Name:    "udp",
	Help:    "support for user datagram protocol",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		opt := Options{VerifyChecksums: true, EnableTeredo: true}
		mapstructure.Decode(cfg, &opt)
		return &UDP{BaseCodec: codec.NewBaseCodec("udp"), opt: opt}
	},
	Dtor: func(codec.Codec) {},
}

type UDP struct {
	codec.BaseCodec
	opt Options
}

func (c *UDP) ProtocolIDs() []uint16 {
	return []uint16{uint16(codec.IPProtoUDP)}
}

func (c *UDP) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < headerLen {
		return codec.ErrPacketTooShort
	}

	udpLen := binary.BigEndian.Uint16(raw.Data[4:6])
	if udpLen < headerLen || uint32(udpLen) > raw.Len {
		return codec.ErrBadLength
	}

	hdr := codec.UDPHdr(raw.Data[:headerLen])
	sd.UDPH = hdr
	sd.SrcPort = hdr.SrcPort()
	sd.DstPort = hdr.DstPort()
	sd.SetPktType(codec.PktTypeUDP)
	cd.ProtoBits |= codec.ProtoBitUDP

	// checksum zero means "not computed" over IPv4
	if c.opt.VerifyChecksums && sd.IPAPI.Active() &&
		(hdr.Checksum() != 0 || sd.IPAPI.IsIP6()) &&
		codec.PseudoChecksum(&sd.IPAPI, codec.IPProtoUDP, raw.Data[:udpLen]) != 0 {
		sd.DecodeFlags |= codec.DecodeErrCksumUDP | codec.DecodeErrCksumAny
	}

	cd.LyrLen = headerLen
	cd.NextProtID = codec.ProtoFinishedDecode

	if c.opt.EnableTeredo && raw.Len > headerLen &&
		(hdr.SrcPort() == teredoPort || hdr.DstPort() == teredoPort) {
		cd.CodecFlags |= codec.CodecEncapLayer | codec.CodecTeredoSeen
		cd.ProtoBits |= codec.ProtoBitTeredo
		cd.NextProtID = codec.EthertypeIPv6
	}
	return nil
}

func (c *UDP) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(headerLen)
	if !ok {
		return codec.ErrBufferOverflow
	}

	orig := codec.UDPHdr(rawIn)
	if es.Flags.Forward() {
		binary.BigEndian.PutUint16(region[0:2], orig.SrcPort())
		binary.BigEndian.PutUint16(region[2:4], orig.DstPort())
	} else {
		binary.BigEndian.PutUint16(region[0:2], orig.DstPort())
		binary.BigEndian.PutUint16(region[2:4], orig.SrcPort())
	}
	binary.BigEndian.PutUint16(region[4:6], uint16(buf.Size()))

	region[6], region[7] = 0, 0
	if es.IPAPI.Active() {
		binary.BigEndian.PutUint16(region[6:8],
			codec.PseudoChecksum(es.IPAPI, codec.IPProtoUDP, buf.Data()))
	}

	es.NextProto = codec.IPProtoUDP
	return nil
}

// Update recomputes the datagram length and checksum.
func (c *UDP) Update(p *codec.Packet, lyr *codec.Layer) (uint32, error) {
	seg := p.Data[lyr.Start:]
	if len(seg) < headerLen {
		return 0, codec.ErrNotRepresentable
	}
	if len(seg) > 0xFFFF {
		return 0, codec.ErrNotRepresentable
	}
	binary.BigEndian.PutUint16(seg[4:6], uint16(len(seg)))
	seg[6], seg[7] = 0, 0
	if p.Snort.IPAPI.Active() {
		binary.BigEndian.PutUint16(seg[6:8],
			codec.PseudoChecksum(&p.Snort.IPAPI, codec.IPProtoUDP, seg))
	}
	return uint32(len(seg)), nil
}

func (c *UDP) Format(flags codec.EncodeFlags, orig, clone *codec.Packet, lyr *codec.Layer) {
	if flags.Reverse() {
		clone.Snort.SrcPort = orig.Snort.DstPort
		clone.Snort.DstPort = orig.Snort.SrcPort
	}
}

func (c *UDP) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	hdr := codec.UDPHdr(rawPkt)
	tl.Print("%d -> %d len:%d", hdr.SrcPort(), hdr.DstPort(), hdr.Length())
}

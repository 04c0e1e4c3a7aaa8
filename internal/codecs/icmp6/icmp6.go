// Package icmp6 implements the ICMPv6 codec. Unlike ICMPv4, the
// checksum is mandatory and covers an IPv6 pseudo-header.
package icmp6

import (
	"encoding/binary"

	"github.com/mitchellh/mapstructure"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const minHeaderLen = 4

type Options struct {
	VerifyChecksums bool `mapstructure:"verify_checksums"`
}

var API = &codec.CodecAPI{
	Name:    "icmp6",
	Help:    "support for internet control message protocol v6",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		opt := Options{VerifyChecksums: true}
		mapstructure.Decode(cfg, &opt)
		return &ICMP6{BaseCodec: codec.NewBaseCodec("icmp6"), opt: opt}
	},
	Dtor: func(codec.Codec) {},
}

type ICMP6 struct {
	codec.BaseCodec
	opt Options
}

func (c *ICMP6) ProtocolIDs() []uint16 {
	return []uint16{uint16(codec.IPProtoICMPv6)}
}

func (c *ICMP6) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < minHeaderLen {
		return codec.ErrPacketTooShort
	}

	sd.ICMPH = codec.ICMPHdr(raw.Data[:minHeaderLen])
	sd.SetPktType(codec.PktTypeICMP6)
	cd.ProtoBits |= codec.ProtoBitICMP

	if c.opt.VerifyChecksums && sd.IPAPI.IsIP6() &&
		codec.PseudoChecksum(&sd.IPAPI, codec.IPProtoICMPv6, raw.Data) != 0 {
		sd.DecodeFlags |= codec.DecodeErrCksumICMP | codec.DecodeErrCksumAny
	}

	cd.LyrLen = minHeaderLen
	cd.NextProtID = codec.ProtoFinishedDecode
	return nil
}

func (c *ICMP6) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(uint32(rawLen))
	if !ok {
		return codec.ErrBufferOverflow
	}
	copy(region, rawIn[:rawLen])

	region[2], region[3] = 0, 0
	if es.IPAPI.Active() {
		binary.BigEndian.PutUint16(region[2:4],
			codec.PseudoChecksum(es.IPAPI, codec.IPProtoICMPv6, buf.Data()))
	}

	es.NextProto = codec.IPProtoICMPv6
	return nil
}

func (c *ICMP6) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	tl.Print("type:%d code:%d", rawPkt[0], rawPkt[1])
}

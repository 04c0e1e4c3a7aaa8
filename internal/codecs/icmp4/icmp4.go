// Package icmp4 implements the ICMPv4 codec.
package icmp4

import (
	"encoding/binary"

	"github.com/mitchellh/mapstructure"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const minHeaderLen = 4

const (
	typeEchoReply = 0
	typeEcho      = 8
)

type Options struct {
	VerifyChecksums bool `mapstructure:"verify_checksums"`
}

var API = &codec.CodecAPI{
	Name:    "icmp4",
	Help:    "support for internet control message protocol v4",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		opt := Options{VerifyChecksums: true}
		mapstructure.Decode(cfg, &opt)
		return &ICMP4{BaseCodec: codec.NewBaseCodec("icmp4"), opt: opt}
	},
	Dtor: func(codec.Codec) {},
}

type ICMP4 struct {
	codec.BaseCodec
	opt Options
}

func (c *ICMP4) ProtocolIDs() []uint16 {
	return []uint16{uint16(codec.IPProtoICMPv4)}
}

func (c *ICMP4) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < minHeaderLen {
		return codec.ErrPacketTooShort
	}

	hdrLen := uint32(minHeaderLen)
	switch raw.Data[0] {
	case typeEcho, typeEchoReply:
		// id and sequence words belong to the header
		hdrLen = 8
		if raw.Len < hdrLen {
			return codec.ErrPacketTooShort
		}
	}

	sd.ICMPH = codec.ICMPHdr(raw.Data[:minHeaderLen])
	sd.SetPktType(codec.PktTypeICMP4)
	cd.ProtoBits |= codec.ProtoBitICMP

	// ICMP checksum covers header and payload
	if c.opt.VerifyChecksums && codec.InChecksum(raw.Data) != 0 {
		sd.DecodeFlags |= codec.DecodeErrCksumICMP | codec.DecodeErrCksumAny
	}

	cd.LyrLen = uint16(hdrLen)
	cd.NextProtID = codec.ProtoFinishedDecode
	return nil
}

func (c *ICMP4) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(uint32(rawLen))
	if !ok {
		return codec.ErrBufferOverflow
	}
	copy(region, rawIn[:rawLen])

	region[2], region[3] = 0, 0
	binary.BigEndian.PutUint16(region[2:4], codec.InChecksum(buf.Data()))

	es.NextProto = codec.IPProtoICMPv4
	return nil
}

func (c *ICMP4) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	tl.Print("type:%d code:%d", rawPkt[0], rawPkt[1])
}

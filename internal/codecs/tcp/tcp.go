// Package tcp implements the TCP codec, including the seq/ack
// arithmetic and flag injection used when building a response segment.
package tcp

import (
	"encoding/binary"

	"github.com/mitchellh/mapstructure"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const minHeaderLen = 20

const (
	optEOL = 0
	optNOP = 1
)

type Options struct {
	VerifyChecksums bool `mapstructure:"verify_checksums"`
}

var API = &codec.CodecAPI{
	Name:    "tcp",
	Help:    "support for transmission control protocol",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		opt := Options{VerifyChecksums: true}
		mapstructure.Decode(cfg, &opt)
		return &TCP{BaseCodec: codec.NewBaseCodec("tcp"), opt: opt}
	},
	Dtor: func(codec.Codec) {},
}

type TCP struct {
	codec.BaseCodec
	opt Options
}

func (c *TCP) ProtocolIDs() []uint16 {
	return []uint16{uint16(codec.IPProtoTCP)}
}

func (c *TCP) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < minHeaderLen {
		return codec.ErrPacketTooShort
	}

	hlen := uint32(raw.Data[12]>>4) * 4
	if hlen < minHeaderLen {
		return codec.ErrBadHeaderLength
	}
	if hlen > raw.Len {
		return codec.ErrPacketTooShort
	}

	hdr := codec.TCPHdr(raw.Data[:hlen])
	sd.TCPH = hdr
	sd.SrcPort = hdr.SrcPort()
	sd.DstPort = hdr.DstPort()
	sd.SetPktType(codec.PktTypeTCP)
	cd.ProtoBits |= codec.ProtoBitTCP

	if c.opt.VerifyChecksums && sd.IPAPI.Active() &&
		codec.PseudoChecksum(&sd.IPAPI, codec.IPProtoTCP, raw.Data) != 0 {
		sd.DecodeFlags |= codec.DecodeErrCksumTCP | codec.DecodeErrCksumAny
	}

	if hlen > minHeaderLen {
		valid := walkOptions(raw.Data[minHeaderLen:hlen])
		cd.LyrLen = uint16(minHeaderLen + valid)
		cd.InvalidBytes = uint16(hlen) - cd.LyrLen
	} else {
		cd.LyrLen = uint16(hlen)
	}

	cd.NextProtID = codec.ProtoFinishedDecode
	return nil
}

// walkOptions returns how many option bytes are structurally sound.
func walkOptions(opts []byte) int {
	i := 0
	for i < len(opts) {
		switch opts[i] {
		case optEOL:
			return len(opts)
		case optNOP:
			i++
		default:
			if i+1 >= len(opts) {
				return i
			}
			olen := int(opts[i+1])
			if olen < 2 || i+olen > len(opts) {
				return i
			}
			i += olen
		}
	}
	return i
}

// Encode emits a bare 20-byte header. Forward keeps the original
// direction and sequence space (optionally shifted by the adjustment
// value); reverse synthesizes the peer's acknowledgment of the
// original segment.
func (c *TCP) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(minHeaderLen)
	if !ok {
		return codec.ErrBufferOverflow
	}

	orig := codec.TCPHdr(rawIn)
	var flags uint8

	if es.Flags.Forward() {
		binary.BigEndian.PutUint16(region[0:2], orig.SrcPort())
		binary.BigEndian.PutUint16(region[2:4], orig.DstPort())
		binary.BigEndian.PutUint32(region[4:8], orig.Seq()+es.SeqAdjust())
		binary.BigEndian.PutUint32(region[8:12], orig.Ack())
		flags = orig.Flags()
	} else {
		binary.BigEndian.PutUint16(region[0:2], orig.DstPort())
		binary.BigEndian.PutUint16(region[2:4], orig.SrcPort())
		binary.BigEndian.PutUint32(region[4:8], orig.Ack()+es.SeqAdjust())
		binary.BigEndian.PutUint32(region[8:12], orig.Seq()+uint32(es.Dsize))
		flags = codec.TCPFlagAck
	}
	if es.Flags&codec.EncFlagPsh != 0 && es.Flags&codec.EncFlagPay != 0 {
		flags |= codec.TCPFlagPsh
	}
	if es.Flags&codec.EncFlagFin != 0 {
		flags |= codec.TCPFlagFin
	}

	region[12] = 5 << 4 // data offset, no options
	region[13] = flags
	binary.BigEndian.PutUint16(region[14:16], orig.Window())
	region[16], region[17] = 0, 0
	region[18], region[19] = 0, 0

	if es.IPAPI.Active() {
		seg := buf.Data()
		binary.BigEndian.PutUint16(region[16:18],
			codec.PseudoChecksum(es.IPAPI, codec.IPProtoTCP, seg))
	}

	es.NextProto = codec.IPProtoTCP
	return nil
}

// Update recomputes the segment checksum after a payload rewrite.
func (c *TCP) Update(p *codec.Packet, lyr *codec.Layer) (uint32, error) {
	seg := p.Data[lyr.Start:]
	if len(seg) < minHeaderLen {
		return 0, codec.ErrNotRepresentable
	}
	seg[16], seg[17] = 0, 0
	if p.Snort.IPAPI.Active() {
		binary.BigEndian.PutUint16(seg[16:18],
			codec.PseudoChecksum(&p.Snort.IPAPI, codec.IPProtoTCP, seg))
	}
	return uint32(len(seg)), nil
}

func (c *TCP) Format(flags codec.EncodeFlags, orig, clone *codec.Packet, lyr *codec.Layer) {
	if flags.Reverse() {
		clone.Snort.SrcPort = orig.Snort.DstPort
		clone.Snort.DstPort = orig.Snort.SrcPort
	}
}

func (c *TCP) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	hdr := codec.TCPHdr(rawPkt)
	tl.Print("%d -> %d seq:%d ack:%d flags:0x%02X win:%d",
		hdr.SrcPort(), hdr.DstPort(), hdr.Seq(), hdr.Ack(), hdr.Flags(), hdr.Window())
}

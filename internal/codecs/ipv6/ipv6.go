// Package ipv6 implements the IPv6 codec and the extension-header
// codecs (hop-by-hop, routing, fragment, destination options).
package ipv6

import (
	"encoding/binary"
	"net/netip"

	"github.com/mitchellh/mapstructure"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const headerLen = 40

type Options struct {
	MinTTL uint8 `mapstructure:"min_ttl"`
}

var API = &codec.CodecAPI{
	Name:    "ipv6",
	Help:    "support for internet protocol version 6",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		opt := Options{MinTTL: 1}
		mapstructure.Decode(cfg, &opt)
		return &IPv6{BaseCodec: codec.NewBaseCodec("ipv6"), opt: opt}
	},
	Dtor: func(codec.Codec) {},
}

type IPv6 struct {
	codec.BaseCodec
	opt Options
}

func (c *IPv6) ProtocolIDs() []uint16 {
	return []uint16{codec.EthertypeIPv6, uint16(codec.IPProtoIPv6)}
}

func (c *IPv6) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < headerLen {
		return codec.ErrPacketTooShort
	}
	if raw.Data[0]>>4 != 6 {
		return codec.ErrBadVersion
	}

	payloadLen := binary.BigEndian.Uint16(raw.Data[4:6])
	if payloadLen != 0 && uint32(headerLen+int(payloadLen)) > raw.Len {
		return codec.ErrBadLength
	}

	next := raw.Data[6]
	hop := raw.Data[7]
	if hop < c.opt.MinTTL {
		sd.DecodeFlags |= codec.DecodeErrBadTTL
	}

	src := netip.AddrFrom16([16]byte(raw.Data[8:24]))
	dst := netip.AddrFrom16([16]byte(raw.Data[24:40]))
	sd.IPAPI.Set(6, src, dst, next, hop)
	sd.SetPktType(codec.PktTypeIP)

	cd.ProtoBits |= codec.ProtoBitIP
	cd.IPLayerCnt++
	cd.IP6ExtensionCount = 0
	cd.CurrIP6Extension = 0
	cd.IP6CsumProto = next

	cd.LyrLen = headerLen
	if next == codec.IPProtoNoNext {
		cd.NextProtID = codec.ProtoFinishedDecode
	} else {
		cd.NextProtID = uint16(next)
	}
	return nil
}

func (c *IPv6) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(headerLen)
	if !ok {
		return codec.ErrBufferOverflow
	}

	copy(region[0:4], rawIn[0:4]) // version, traffic class, flow label
	binary.BigEndian.PutUint16(region[4:6], uint16(buf.Size())-headerLen)

	next := rawIn[6]
	if es.NextProtoSet() {
		next = es.NextProto
	}
	region[6] = next
	region[7] = es.GetTTL(rawIn[7])

	if es.Flags.Forward() {
		copy(region[8:24], rawIn[8:24])
		copy(region[24:40], rawIn[24:40])
	} else {
		copy(region[8:24], rawIn[24:40])
		copy(region[24:40], rawIn[8:24])
	}

	es.NextProto = codec.IPProtoIPv6
	es.NextEthertype = codec.EthertypeIPv6
	return nil
}

func (c *IPv6) Format(flags codec.EncodeFlags, orig, clone *codec.Packet, lyr *codec.Layer) {
	if flags.Reverse() {
		api := &orig.Snort.IPAPI
		clone.Snort.IPAPI.Set(6, api.Dst(), api.Src(), api.Proto(), api.TTL())
	}
}

func (c *IPv6) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	src := netip.AddrFrom16([16]byte(rawPkt[8:24]))
	dst := netip.AddrFrom16([16]byte(rawPkt[24:40]))
	tl.Print("%s -> %s hop:%d next:%d", src, dst, rawPkt[7], rawPkt[6])
}

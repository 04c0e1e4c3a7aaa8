// Package ipv4 implements the IPv4 codec: header validation, option
// walking with exact invalid-byte accounting, fragment and TTL
// anomaly flagging, and response-header encoding.
package ipv4

import (
	"encoding/binary"
	"math/rand"
	"net/netip"

	"github.com/mitchellh/mapstructure"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const minHeaderLen = 20

// IP option types that downstream detection cares about.
const (
	optEOL    = 0
	optNOP    = 1
	optRR     = 7
	optRtrAlt = 148
)

// Options configures decode-time policy.
type Options struct {
	VerifyChecksums bool  `mapstructure:"verify_checksums"`
	MinTTL          uint8 `mapstructure:"min_ttl"`
}

var API = &codec.CodecAPI{
	Name:    "ipv4",
	Help:    "support for internet protocol version 4",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		opt := Options{VerifyChecksums: true, MinTTL: 1}
		mapstructure.Decode(cfg, &opt)
		return &IPv4{BaseCodec: codec.NewBaseCodec("ipv4"), opt: opt}
	},
	Dtor: func(codec.Codec) {},
}

type IPv4 struct {
	codec.BaseCodec
	opt Options
}

func (c *IPv4) ProtocolIDs() []uint16 {
	return []uint16{codec.EthertypeIPv4, uint16(codec.IPProtoIPIP)}
}

func (c *IPv4) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < minHeaderLen {
		return codec.ErrPacketTooShort
	}
	if raw.Data[0]>>4 != 4 {
		return codec.ErrBadVersion
	}

	hlen := uint32(raw.Data[0]&0x0F) * 4
	if hlen < minHeaderLen {
		return codec.ErrBadHeaderLength
	}
	if hlen > raw.Len {
		return codec.ErrPacketTooShort
	}

	totalLen := binary.BigEndian.Uint16(raw.Data[2:4])
	if uint32(totalLen) < hlen || uint32(totalLen) > raw.Len {
		return codec.ErrBadLength
	}

	ttl := raw.Data[8]
	proto := raw.Data[9]

	if c.opt.VerifyChecksums && codec.InChecksum(raw.Data[:hlen]) != 0 {
		sd.DecodeFlags |= codec.DecodeErrCksumIP | codec.DecodeErrCksumAny
	}
	if ttl < c.opt.MinTTL {
		sd.DecodeFlags |= codec.DecodeErrBadTTL
	}

	fragWord := binary.BigEndian.Uint16(raw.Data[6:8])
	fragOff := fragWord & 0x1FFF
	if fragWord&0x4000 != 0 {
		cd.CodecFlags |= codec.CodecDF
	}
	if fragWord&0x2000 != 0 {
		sd.DecodeFlags |= codec.DecodeMF
	}
	if fragWord&0x2000 != 0 || fragOff != 0 {
		sd.DecodeFlags |= codec.DecodeFrag
	}

	if hlen > minHeaderLen {
		valid := walkOptions(raw.Data[minHeaderLen:hlen], cd)
		cd.LyrLen = uint16(minHeaderLen + valid)
		cd.InvalidBytes = uint16(hlen) - cd.LyrLen
	} else {
		cd.LyrLen = uint16(hlen)
	}

	src := netip.AddrFrom4([4]byte(raw.Data[12:16]))
	dst := netip.AddrFrom4([4]byte(raw.Data[16:20]))
	sd.IPAPI.Set(4, src, dst, proto, ttl)
	sd.SetPktType(codec.PktTypeIP)

	cd.ProtoBits |= codec.ProtoBitIP
	cd.IPLayerCnt++

	if fragOff != 0 {
		// non-first fragment: the rest is opaque
		cd.NextProtID = codec.ProtoFinishedDecode
	} else {
		cd.NextProtID = uint16(proto)
	}
	return nil
}

// walkOptions validates the option bytes and returns how many of them
// are structurally sound. Malformed options end the walk; the remainder
// is reported as invalid bytes so outer length accounting stays exact.
func walkOptions(opts []byte, cd *codec.CodecData) int {
	i := 0
	for i < len(opts) {
		switch t := opts[i]; t {
		case optEOL:
			// end of list; remaining bytes are padding
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
			switch t {
			case optRR:
				cd.CodecFlags |= codec.CodecIPOptRRSeen
			case optRtrAlt:
				cd.CodecFlags |= codec.CodecIPOptRtrAltSeen
			}
			if olen == 3 {
				cd.CodecFlags |= codec.CodecIPOptLenThree
			}
			i += olen
		}
	}
	return i
}

// Encode emits a bare 20-byte header; original options are never copied
// into a response.
func (c *IPv4) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(minHeaderLen)
	if !ok {
		return codec.ErrBufferOverflow
	}

	region[0] = 0x45 // version 4, ihl 5
	region[1] = rawIn[1]
	binary.BigEndian.PutUint16(region[2:4], uint16(buf.Size()))

	if es.Flags&codec.EncFlagID != 0 {
		binary.BigEndian.PutUint16(region[4:6], uint16(rand.Uint32()))
	} else {
		copy(region[4:6], rawIn[4:6])
	}
	binary.BigEndian.PutUint16(region[6:8], binary.BigEndian.Uint16(rawIn[6:8])&0x4000) // keep DF only

	region[8] = es.GetTTL(rawIn[8])

	proto := rawIn[9]
	if es.NextProtoSet() {
		proto = es.NextProto
	}
	region[9] = proto

	if es.Flags.Forward() {
		copy(region[12:16], rawIn[12:16])
		copy(region[16:20], rawIn[16:20])
	} else {
		copy(region[12:16], rawIn[16:20])
		copy(region[16:20], rawIn[12:16])
	}

	region[10], region[11] = 0, 0
	binary.BigEndian.PutUint16(region[10:12], codec.InChecksum(region))

	es.NextProto = codec.IPProtoIPIP
	es.NextEthertype = codec.EthertypeIPv4
	return nil
}

// Update recomputes the datagram length after an upstream mutation.
func (c *IPv4) Update(p *codec.Packet, lyr *codec.Layer) (uint32, error) {
	total := uint32(len(p.Data)) - lyr.Start
	if total > 0xFFFF {
		return 0, codec.ErrNotRepresentable
	}
	hdr := p.Data[lyr.Start : lyr.Start+uint32(lyr.Length)]
	binary.BigEndian.PutUint16(hdr[2:4], uint16(total))
	hdr[10], hdr[11] = 0, 0
	binary.BigEndian.PutUint16(hdr[10:12], codec.InChecksum(hdr))
	return total, nil
}

func (c *IPv4) Format(flags codec.EncodeFlags, orig, clone *codec.Packet, lyr *codec.Layer) {
	if flags.Reverse() {
		api := &orig.Snort.IPAPI
		clone.Snort.IPAPI.Set(4, api.Dst(), api.Src(), api.Proto(), api.TTL())
	}
}

func (c *IPv4) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	tl.Print("%d.%d.%d.%d -> %d.%d.%d.%d ttl:%d proto:%d len:%d",
		rawPkt[12], rawPkt[13], rawPkt[14], rawPkt[15],
		rawPkt[16], rawPkt[17], rawPkt[18], rawPkt[19],
		rawPkt[8], rawPkt[9], binary.BigEndian.Uint16(rawPkt[2:4]))
}

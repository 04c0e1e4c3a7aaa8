// Package eth implements the Ethernet II root codec.
package eth

import (
	"encoding/binary"

	"github.com/google/gopacket/layers"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const headerLen = 14

// API is the registration record for the Ethernet codec.
var API = &codec.CodecAPI{
	Name:    "eth",
	Help:    "support for ethernet protocol (DLT 1)",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		return &Eth{BaseCodec: codec.NewBaseCodec("eth")}
	},
	Dtor: func(codec.Codec) {},
}

type Eth struct {
	codec.BaseCodec
}

func (e *Eth) DataLinkTypes() []layers.LinkType {
	return []layers.LinkType{layers.LinkTypeEthernet}
}

func (e *Eth) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < headerLen {
		return codec.ErrPacketTooShort
	}

	ethertype := binary.BigEndian.Uint16(raw.Data[12:14])
	if ethertype < codec.EthertypeMinimum {
		// 802.3 length field, not an ethertype
		return codec.ErrBadEthertype
	}

	cd.LyrLen = headerLen
	cd.NextProtID = ethertype
	cd.ProtoBits |= codec.ProtoBitEth
	return nil
}

func (e *Eth) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(headerLen)
	if !ok {
		return codec.ErrBufferOverflow
	}

	if es.Flags.Forward() {
		copy(region[0:6], rawIn[0:6])
		copy(region[6:12], rawIn[6:12])
	} else {
		copy(region[0:6], rawIn[6:12])
		copy(region[6:12], rawIn[0:6])
	}

	ethertype := binary.BigEndian.Uint16(rawIn[12:14])
	if es.EthertypeSet() {
		ethertype = es.NextEthertype
	}
	binary.BigEndian.PutUint16(region[12:14], ethertype)
	return nil
}

func (e *Eth) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	tl.Print("%02X:%02X:%02X:%02X:%02X:%02X -> %02X:%02X:%02X:%02X:%02X:%02X type:0x%04X",
		rawPkt[6], rawPkt[7], rawPkt[8], rawPkt[9], rawPkt[10], rawPkt[11],
		rawPkt[0], rawPkt[1], rawPkt[2], rawPkt[3], rawPkt[4], rawPkt[5],
		binary.BigEndian.Uint16(rawPkt[12:14]))
}

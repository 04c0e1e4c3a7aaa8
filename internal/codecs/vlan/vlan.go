// Package vlan implements 802.1Q and 802.1ad (QinQ) tag decoding.
package vlan

import (
	"encoding/binary"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

const headerLen = 4

var API = &codec.CodecAPI{
	Name:    "vlan",
	Help:    "support for 802.1Q and 802.1ad VLAN tags",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		return &VLAN{BaseCodec: codec.NewBaseCodec("vlan")}
	},
	Dtor: func(codec.Codec) {},
}

type VLAN struct {
	codec.BaseCodec
}

func (v *VLAN) ProtocolIDs() []uint16 {
	return []uint16{codec.EthertypeVLAN, codec.EthertypeQinQ}
}

func (v *VLAN) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < headerLen {
		return codec.ErrPacketTooShort
	}

	inner := binary.BigEndian.Uint16(raw.Data[2:4])
	if inner < codec.EthertypeMinimum {
		return codec.ErrBadEthertype
	}

	cd.LyrLen = headerLen
	cd.NextProtID = inner
	cd.ProtoBits |= codec.ProtoBitVLAN
	return nil
}

func (v *VLAN) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(headerLen)
	if !ok {
		return codec.ErrBufferOverflow
	}

	copy(region[0:2], rawIn[0:2]) // TCI unchanged

	inner := binary.BigEndian.Uint16(rawIn[2:4])
	if es.EthertypeSet() {
		inner = es.NextEthertype
	}
	binary.BigEndian.PutUint16(region[2:4], inner)

	// the enclosing header embeds the tag protocol id
	es.NextEthertype = codec.EthertypeVLAN
	return nil
}

func (v *VLAN) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	tci := binary.BigEndian.Uint16(rawPkt[0:2])
	tl.Print("vid:%d pcp:%d inner:0x%04X",
		tci&0x0FFF, tci>>13, binary.BigEndian.Uint16(rawPkt[2:4]))
}

// Package arp implements ARP-over-Ethernet decoding.
package arp

import (
	"encoding/binary"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

// Fixed layout for hardware type 1 (Ethernet) / protocol type IPv4.
const headerLen = 28

const (
	opRequest = 1
	opReply   = 2
)

var API = &codec.CodecAPI{
	Name:    "arp",
	Help:    "support for address resolution protocol",
	Version: "0.1.0",
	Ctor: func(cfg map[string]any) codec.Codec {
		return &ARP{BaseCodec: codec.NewBaseCodec("arp")}
	},
	Dtor: func(codec.Codec) {},
}

type ARP struct {
	codec.BaseCodec
}

func (a *ARP) ProtocolIDs() []uint16 {
	return []uint16{codec.EthertypeARP}
}

func (a *ARP) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	if raw.Len < headerLen {
		return codec.ErrPacketTooShort
	}

	sd.SetPktType(codec.PktTypeARP)
	cd.ProtoBits |= codec.ProtoBitARP
	cd.LyrLen = headerLen
	cd.NextProtID = codec.ProtoFinishedDecode
	return nil
}

func (a *ARP) Encode(rawIn []byte, rawLen uint16, es *codec.EncState, buf *codec.Buffer) error {
	region, ok := buf.Allocate(headerLen)
	if !ok {
		return codec.ErrBufferOverflow
	}
	copy(region, rawIn[:headerLen])

	if es.Flags.Reverse() {
		// flip the opcode and swap sender/target address pairs
		op := binary.BigEndian.Uint16(rawIn[6:8])
		if op == opRequest {
			op = opReply
		}
		binary.BigEndian.PutUint16(region[6:8], op)
		copy(region[8:18], rawIn[18:28])
		copy(region[18:28], rawIn[8:18])
	}

	es.NextEthertype = codec.EthertypeARP
	return nil
}

func (a *ARP) Log(tl *log.TextLog, rawPkt []byte, p *codec.Packet) {
	op := binary.BigEndian.Uint16(rawPkt[6:8])
	tl.Print("op:%d %d.%d.%d.%d -> %d.%d.%d.%d", op,
		rawPkt[14], rawPkt[15], rawPkt[16], rawPkt[17],
		rawPkt[24], rawPkt[25], rawPkt[26], rawPkt[27])
}

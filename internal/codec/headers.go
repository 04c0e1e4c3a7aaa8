package codec

import "encoding/binary"

// Header views are non-owning slices over packet bytes exposing a typed
// interpretation without copying. The decoding codec guarantees the
// minimum length before installing a view in SnortData.

// TCPHdr is a view over a validated TCP header (>= 20 bytes).
type TCPHdr []byte

const TCPHdrMinLen = 20

func (h TCPHdr) SrcPort() uint16 { return binary.BigEndian.Uint16(h[0:2]) }
func (h TCPHdr) DstPort() uint16 { return binary.BigEndian.Uint16(h[2:4]) }
func (h TCPHdr) Seq() uint32     { return binary.BigEndian.Uint32(h[4:8]) }
func (h TCPHdr) Ack() uint32     { return binary.BigEndian.Uint32(h[8:12]) }
func (h TCPHdr) Window() uint16  { return binary.BigEndian.Uint16(h[14:16]) }
func (h TCPHdr) Checksum() uint16 {
	return binary.BigEndian.Uint16(h[16:18])
}

// HdrLen returns the header length in bytes from the data offset field.
func (h TCPHdr) HdrLen() int { return int(h[12]>>4) * 4 }

// Flags returns the six low TCP flag bits (URG ACK PSH RST SYN FIN).
func (h TCPHdr) Flags() uint8 { return h[13] & 0x3F }

const (
	TCPFlagFin uint8 = 0x01
	TCPFlagSyn uint8 = 0x02
	TCPFlagRst uint8 = 0x04
	TCPFlagPsh uint8 = 0x08
	TCPFlagAck uint8 = 0x10
	TCPFlagUrg uint8 = 0x20
)

// UDPHdr is a view over a validated UDP header (8 bytes).
type UDPHdr []byte

const UDPHdrLen = 8

func (h UDPHdr) SrcPort() uint16  { return binary.BigEndian.Uint16(h[0:2]) }
func (h UDPHdr) DstPort() uint16  { return binary.BigEndian.Uint16(h[2:4]) }
func (h UDPHdr) Length() uint16   { return binary.BigEndian.Uint16(h[4:6]) }
func (h UDPHdr) Checksum() uint16 { return binary.BigEndian.Uint16(h[6:8]) }

// ICMPHdr is a view over a validated ICMP header (>= 4 bytes, both v4
// and v6 share the leading type/code/checksum layout).
type ICMPHdr []byte

const ICMPHdrMinLen = 4

func (h ICMPHdr) Type() uint8      { return h[0] }
func (h ICMPHdr) Code() uint8      { return h[1] }
func (h ICMPHdr) Checksum() uint16 { return binary.BigEndian.Uint16(h[2:4]) }

package codec

import (
	"encoding/binary"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInChecksum_KnownHeader(t *testing.T) {
	// worked example from RFC 1071 territory: a real IPv4 header with
	// its checksum field zeroed, then verified round trip
	hdr := []byte{
		0x45, 0x00, 0x00, 0x3C, 0x1C, 0x46, 0x40, 0x00,
		0x40, 0x06, 0x00, 0x00, 0xAC, 0x10, 0x0A, 0x63,
		0xAC, 0x10, 0x0A, 0x0C,
	}
	sum := InChecksum(hdr)
	binary.BigEndian.PutUint16(hdr[10:12], sum)

	// a header carrying its own correct checksum sums to zero
	assert.Equal(t, uint16(0), InChecksum(hdr))
}

func TestInChecksum_OddLength(t *testing.T) {
	even := InChecksum([]byte{0x12, 0x34, 0x56, 0x00})
	odd := InChecksum([]byte{0x12, 0x34, 0x56})

	// the trailing odd byte pads with zero
	assert.Equal(t, even, odd)
}

func TestInChecksum_Empty(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), InChecksum(nil))
}

func TestPseudoChecksum_RoundTrip(t *testing.T) {
	var api IPAPI
	api.Set(4,
		netip.MustParseAddr("10.1.1.1"),
		netip.MustParseAddr("10.1.1.2"),
		IPProtoUDP, 64)

	seg := make([]byte, 12)
	binary.BigEndian.PutUint16(seg[0:2], 5060)
	binary.BigEndian.PutUint16(seg[2:4], 5060)
	binary.BigEndian.PutUint16(seg[4:6], 12)
	copy(seg[8:], "hi")

	sum := PseudoChecksum(&api, IPProtoUDP, seg)
	binary.BigEndian.PutUint16(seg[6:8], sum)

	assert.Equal(t, uint16(0), PseudoChecksum(&api, IPProtoUDP, seg))
}

func TestPseudoChecksum_DependsOnAddresses(t *testing.T) {
	var a, b IPAPI
	a.Set(4, netip.MustParseAddr("10.1.1.1"), netip.MustParseAddr("10.1.1.2"), IPProtoTCP, 64)
	b.Set(4, netip.MustParseAddr("10.1.1.1"), netip.MustParseAddr("10.1.1.3"), IPProtoTCP, 64)

	seg := []byte{0x00, 0x50, 0x04, 0xD2, 0, 0, 0, 0, 0, 0, 0, 0, 0x50, 0x10, 0xFF, 0xFF, 0, 0, 0, 0}
	assert.NotEqual(t, PseudoChecksum(&a, IPProtoTCP, seg), PseudoChecksum(&b, IPProtoTCP, seg))
}

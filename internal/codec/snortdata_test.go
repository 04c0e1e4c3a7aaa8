package codec

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnortData_PktType_RoundTrip(t *testing.T) {
	types := []PktType{
		PktTypeUnknown, PktTypeIP, PktTypeTCP, PktTypeUDP,
		PktTypeICMP4, PktTypeICMP6, PktTypeARP,
	}

	var sd SnortData
	for _, pt := range types {
		sd.SetPktType(pt)
		assert.Equal(t, pt, sd.GetPktType())
	}
}

func TestSnortData_PktType_PreservesFlags(t *testing.T) {
	var sd SnortData
	sd.DecodeFlags = DecodeErrCksumTCP | DecodeFrag

	sd.SetPktType(PktTypeTCP)
	assert.Equal(t, PktTypeTCP, sd.GetPktType())
	assert.NotZero(t, sd.DecodeFlags&DecodeErrCksumTCP)
	assert.NotZero(t, sd.DecodeFlags&DecodeFrag)

	// overwriting the type keeps the flags intact
	sd.SetPktType(PktTypeUDP)
	assert.Equal(t, PktTypeUDP, sd.GetPktType())
	assert.NotZero(t, sd.DecodeFlags&DecodeErrCksumTCP)
}

func TestSnortData_Reset(t *testing.T) {
	var sd SnortData
	sd.TCPH = TCPHdr(make([]byte, TCPHdrMinLen))
	sd.SrcPort = 80
	sd.DstPort = 1234
	sd.SetPktType(PktTypeTCP)
	sd.DecodeFlags |= DecodeErrCksumAny
	sd.IPAPI.Set(4, netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.2"), IPProtoTCP, 64)
	sd.MPLS = MPLSHdr{Label: 42}

	sd.Reset()

	assert.Nil(t, sd.TCPH)
	assert.Nil(t, sd.UDPH)
	assert.Nil(t, sd.ICMPH)
	assert.Zero(t, sd.SrcPort)
	assert.Zero(t, sd.DstPort)
	assert.Equal(t, PktTypeUnknown, sd.GetPktType())
	assert.Zero(t, sd.DecodeFlags)
	assert.False(t, sd.IPAPI.Active())
	assert.Zero(t, sd.MPLS.Label)
}

func TestIPAPI_Set(t *testing.T) {
	var api IPAPI
	assert.False(t, api.Active())

	src := netip.MustParseAddr("192.168.1.10")
	dst := netip.MustParseAddr("192.168.1.20")
	api.Set(4, src, dst, IPProtoUDP, 63)

	assert.True(t, api.Active())
	assert.True(t, api.IsIP4())
	assert.False(t, api.IsIP6())
	assert.Equal(t, src, api.Src())
	assert.Equal(t, dst, api.Dst())
	assert.Equal(t, IPProtoUDP, api.Proto())
	assert.Equal(t, uint8(63), api.TTL())

	api.Reset()
	assert.False(t, api.Active())
}

func TestPktType_String(t *testing.T) {
	assert.Equal(t, "tcp", PktTypeTCP.String())
	assert.Equal(t, "arp", PktTypeARP.String())
	assert.Equal(t, "unknown", PktTypeUnknown.String())
	assert.Equal(t, "unknown", PktType(7).String())
}

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecData_NextLayer_CarriesCounters(t *testing.T) {
	cd := NewCodecData(EthertypeIPv4)
	cd.LyrLen = 24
	cd.InvalidBytes = 4
	cd.CodecFlags = CodecDF | CodecIPOptRRSeen
	cd.ProtoBits = ProtoBitEth | ProtoBitIP
	cd.IPLayerCnt = 2
	cd.IP6ExtensionCount = 1
	cd.CurrIP6Extension = IPProtoHopOpts
	cd.IP6CsumProto = IPProtoTCP
	cd.NextProtID = uint16(IPProtoTCP)

	next := cd.NextLayer()

	// decode-scoped state is cleared
	assert.Zero(t, next.LyrLen)
	assert.Zero(t, next.InvalidBytes)
	assert.Zero(t, next.CodecFlags)

	// selection and packet-scoped state carries over
	assert.Equal(t, uint16(IPProtoTCP), next.NextProtID)
	assert.Equal(t, ProtoBitEth|ProtoBitIP, next.ProtoBits)
	assert.Equal(t, uint8(2), next.IPLayerCnt)
	assert.Equal(t, uint8(1), next.IP6ExtensionCount)
	assert.Equal(t, IPProtoHopOpts, next.CurrIP6Extension)
	assert.Equal(t, IPProtoTCP, next.IP6CsumProto)
}

func TestCodecData_EncapLayerImpliesUnsure(t *testing.T) {
	// a layer marked as encap boundary carries both bits
	assert.Equal(t, CodecEncapLayer, CodecSaveLayer|CodecUnsureEncap)
	assert.Equal(t, CodecEncapLayer, CodecEncapLayer&(CodecSaveLayer|CodecUnsureEncap))
}

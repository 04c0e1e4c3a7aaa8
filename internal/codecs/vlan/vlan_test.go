package vlan

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StartiOne/snort3/internal/codec"
)

func tag(vid uint16, inner uint16) []byte {
	b := make([]byte, headerLen)
	binary.BigEndian.PutUint16(b[0:2], vid&0x0FFF)
	binary.BigEndian.PutUint16(b[2:4], inner)
	return b
}

func TestVLAN_Decode(t *testing.T) {
	c := API.Ctor(nil)
	cd := codec.NewCodecData(codec.EthertypeVLAN)
	var sd codec.SnortData
	require.NoError(t, c.Decode(codec.NewRawData(tag(42, codec.EthertypeIPv4)), &cd, &sd))

	assert.Equal(t, uint16(headerLen), cd.LyrLen)
	assert.Equal(t, codec.EthertypeIPv4, cd.NextProtID)
	assert.NotZero(t, cd.ProtoBits&codec.ProtoBitVLAN)
}

func TestVLAN_Decode_QinQChains(t *testing.T) {
	c := API.Ctor(nil)
	cd := codec.NewCodecData(codec.EthertypeQinQ)
	var sd codec.SnortData
	require.NoError(t, c.Decode(codec.NewRawData(tag(100, codec.EthertypeVLAN)), &cd, &sd))

	// the inner tag is decoded by the same codec on the next pass
	assert.Equal(t, codec.EthertypeVLAN, cd.NextProtID)
}

func TestVLAN_Decode_RejectsBadInnerType(t *testing.T) {
	c := API.Ctor(nil)
	cd := codec.NewCodecData(codec.EthertypeVLAN)
	var sd codec.SnortData
	err := c.Decode(codec.NewRawData(tag(42, 0x0042)), &cd, &sd)
	assert.ErrorIs(t, err, codec.ErrBadEthertype)
}

func TestVLAN_Decode_Truncated(t *testing.T) {
	c := API.Ctor(nil)
	cd := codec.NewCodecData(codec.EthertypeVLAN)
	var sd codec.SnortData
	err := c.Decode(codec.NewRawData([]byte{0x00, 0x2A}), &cd, &sd)
	assert.ErrorIs(t, err, codec.ErrPacketTooShort)
}

func TestVLAN_Encode_KeepsTCI(t *testing.T) {
	c := API.Ctor(nil)
	raw := tag(42, codec.EthertypeIPv4)

	buf := codec.NewBuffer(codec.PktMax)
	es := codec.NewEncState(&codec.IPAPI{}, codec.EncFlagFwd, codec.ProtoUnset, 0, 0)
	es.NextEthertype = codec.EthertypeIPv4
	require.NoError(t, c.Encode(raw, headerLen, &es, buf))

	out := buf.Data()
	assert.Equal(t, raw[0:2], out[0:2])
	assert.Equal(t, codec.EthertypeIPv4, binary.BigEndian.Uint16(out[2:4]))
	assert.Equal(t, codec.EthertypeVLAN, es.NextEthertype)
}

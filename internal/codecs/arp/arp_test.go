package arp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StartiOne/snort3/internal/codec"
)

// request builds an ARP who-has for Ethernet/IPv4.
func request() []byte {
	b := make([]byte, headerLen)
	binary.BigEndian.PutUint16(b[0:2], 1)      // hardware: ethernet
	binary.BigEndian.PutUint16(b[2:4], 0x0800) // protocol: ipv4
	b[4], b[5] = 6, 4
	binary.BigEndian.PutUint16(b[6:8], opRequest)
	copy(b[8:14], []byte{0x02, 0, 0, 0, 0, 0x01}) // sender mac
	copy(b[14:18], []byte{10, 0, 0, 1})           // sender ip
	copy(b[24:28], []byte{10, 0, 0, 2})           // target ip
	return b
}

func TestARP_Decode(t *testing.T) {
	c := API.Ctor(nil)
	cd := codec.NewCodecData(codec.EthertypeARP)
	var sd codec.SnortData
	require.NoError(t, c.Decode(codec.NewRawData(request()), &cd, &sd))

	assert.Equal(t, uint16(headerLen), cd.LyrLen)
	assert.Equal(t, codec.ProtoFinishedDecode, cd.NextProtID)
	assert.Equal(t, codec.PktTypeARP, sd.GetPktType())
	assert.NotZero(t, cd.ProtoBits&codec.ProtoBitARP)
}

func TestARP_Decode_Truncated(t *testing.T) {
	c := API.Ctor(nil)
	cd := codec.NewCodecData(codec.EthertypeARP)
	var sd codec.SnortData
	err := c.Decode(codec.NewRawData(request()[:20]), &cd, &sd)
	assert.ErrorIs(t, err, codec.ErrPacketTooShort)
}

func TestARP_Encode_ReverseBuildsReply(t *testing.T) {
	c := API.Ctor(nil)
	raw := request()

	buf := codec.NewBuffer(codec.PktMax)
	es := codec.NewEncState(&codec.IPAPI{}, 0, codec.ProtoUnset, 0, 0)
	require.NoError(t, c.Encode(raw, headerLen, &es, buf))

	out := buf.Data()
	assert.Equal(t, uint16(opReply), binary.BigEndian.Uint16(out[6:8]))
	// sender and target address blocks swap
	assert.Equal(t, raw[18:28], out[8:18])
	assert.Equal(t, raw[8:18], out[18:28])
	assert.Equal(t, codec.EthertypeARP, es.NextEthertype)
}

func TestARP_Encode_ForwardCopies(t *testing.T) {
	c := API.Ctor(nil)
	raw := request()

	buf := codec.NewBuffer(codec.PktMax)
	es := codec.NewEncState(&codec.IPAPI{}, codec.EncFlagFwd, codec.ProtoUnset, 0, 0)
	require.NoError(t, c.Encode(raw, headerLen, &es, buf))

	assert.Equal(t, raw, buf.Data())
}

package dispatch_test

import (
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/codecs"
	"github.com/StartiOne/snort3/internal/codecs/eth"
	"github.com/StartiOne/snort3/internal/codecs/ipv4"
	"github.com/StartiOne/snort3/internal/config"
	"github.com/StartiOne/snort3/internal/dispatch"
)

type stubCodec struct {
	codec.BaseCodec
	links  []layers.LinkType
	protos []uint16
}

func (s *stubCodec) DataLinkTypes() []layers.LinkType { return s.links }
func (s *stubCodec) ProtocolIDs() []uint16            { return s.protos }

func (s *stubCodec) Decode(raw codec.RawData, cd *codec.CodecData, sd *codec.SnortData) error {
	cd.LyrLen = uint16(raw.Len)
	cd.NextProtID = codec.ProtoFinishedDecode
	return nil
}

func stubAPI(name string, c codec.Codec) *codec.CodecAPI {
	return &codec.CodecAPI{
		Name:    name,
		Help:    "stub",
		Version: "0.0.0",
		Ctor:    func(map[string]any) codec.Codec { return c },
		Dtor:    func(codec.Codec) {},
	}
}

func TestRegistry_Register_Success(t *testing.T) {
	r := dispatch.NewRegistry()

	err := r.Register(eth.API, nil)
	assert.NoError(t, err)

	c, ok := r.RootCodec(layers.LinkTypeEthernet)
	assert.True(t, ok)
	assert.Equal(t, "eth", c.Name())
}

func TestRegistry_Register_DuplicateName(t *testing.T) {
	r := dispatch.NewRegistry()

	assert.NoError(t, r.Register(eth.API, nil))
	err := r.Register(eth.API, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Register_DuplicateProtocolClaim(t *testing.T) {
	r := dispatch.NewRegistry()
	assert.NoError(t, r.Register(ipv4.API, nil))

	imposter := &stubCodec{
		BaseCodec: codec.NewBaseCodec("imposter"),
		protos:    []uint16{codec.EthertypeIPv4},
	}
	err := r.Register(stubAPI("imposter", imposter), nil)
	assert.ErrorIs(t, err, codec.ErrDuplicateClaim)
}

func TestRegistry_Register_DuplicateLinkClaim(t *testing.T) {
	r := dispatch.NewRegistry()
	assert.NoError(t, r.Register(eth.API, nil))

	imposter := &stubCodec{
		BaseCodec: codec.NewBaseCodec("imposter"),
		links:     []layers.LinkType{layers.LinkTypeEthernet},
	}
	err := r.Register(stubAPI("imposter", imposter), nil)
	assert.ErrorIs(t, err, codec.ErrDuplicateClaim)
}

func TestRegistry_Register_MissingCtor(t *testing.T) {
	r := dispatch.NewRegistry()
	err := r.Register(&codec.CodecAPI{Name: "broken"}, nil)
	assert.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	r := dispatch.NewRegistry()
	assert.NoError(t, r.Register(ipv4.API, nil))

	c, ok := r.Lookup(codec.EthertypeIPv4)
	assert.True(t, ok)
	assert.Equal(t, "ipv4", c.Name())

	// ip-in-ip rides the same codec
	c, ok = r.Lookup(uint16(codec.IPProtoIPIP))
	assert.True(t, ok)
	assert.Equal(t, "ipv4", c.Name())

	_, ok = r.Lookup(codec.EthertypeIPv6)
	assert.False(t, ok)
}

func TestRegistry_RegisterAll(t *testing.T) {
	r := dispatch.NewRegistry()
	err := codecs.RegisterAll(r, config.Default())
	assert.NoError(t, err)

	for _, proto := range []uint16{
		codec.EthertypeIPv4,
		codec.EthertypeIPv6,
		codec.EthertypeARP,
		codec.EthertypeVLAN,
		codec.EthertypeMPLSUnicast,
		uint16(codec.IPProtoTCP),
		uint16(codec.IPProtoUDP),
		uint16(codec.IPProtoICMPv4),
		uint16(codec.IPProtoICMPv6),
		uint16(codec.IPProtoFragment),
	} {
		_, ok := r.Lookup(proto)
		assert.True(t, ok, "protocol 0x%04X has no codec", proto)
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := dispatch.NewRegistry()

	var calls []string
	api := stubAPI("lifecycle", &stubCodec{BaseCodec: codec.NewBaseCodec("lifecycle")})
	api.PInit = func() { calls = append(calls, "pinit") }
	api.PTerm = func() { calls = append(calls, "pterm") }
	api.TInit = func() { calls = append(calls, "tinit") }
	api.TTerm = func() { calls = append(calls, "tterm") }
	api.Dtor = func(codec.Codec) { calls = append(calls, "dtor") }

	assert.NoError(t, r.Register(api, nil))
	assert.Equal(t, []string{"pinit"}, calls)

	w := r.NewWorker()
	assert.Equal(t, []string{"pinit", "tinit"}, calls)

	w.Close()
	assert.Equal(t, []string{"pinit", "tinit", "tterm"}, calls)

	r.Shutdown()
	assert.Equal(t, []string{"pinit", "tinit", "tterm", "dtor", "pterm"}, calls)
}

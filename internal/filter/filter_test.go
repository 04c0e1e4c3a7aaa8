package filter

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrame(t *testing.T, proto layers.IPProtocol, srcPort, dstPort uint16) []byte {
	t.Helper()
	e := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 0x01},
		DstMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version: 4, IHL: 5, TTL: 64, Protocol: proto,
		SrcIP: net.IPv4(10, 0, 0, 1).To4(),
		DstIP: net.IPv4(10, 0, 0, 2).To4(),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

	switch proto {
	case layers.IPProtocolTCP:
		tcp := &layers.TCP{SrcPort: layers.TCPPort(srcPort), DstPort: layers.TCPPort(dstPort), DataOffset: 5}
		require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
		require.NoError(t, gopacket.SerializeLayers(buf, opts, e, ip, tcp))
	case layers.IPProtocolUDP:
		udp := &layers.UDP{SrcPort: layers.UDPPort(srcPort), DstPort: layers.UDPPort(dstPort)}
		require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
		require.NoError(t, gopacket.SerializeLayers(buf, opts, e, ip, udp))
	default:
		require.NoError(t, gopacket.SerializeLayers(buf, opts, e, ip))
	}
	return buf.Bytes()
}

func TestFilter_AcceptAll(t *testing.T) {
	f, err := Compile("", 0)
	require.NoError(t, err)

	assert.True(t, f.Match(buildFrame(t, layers.IPProtocolTCP, 1234, 80)))
	assert.True(t, f.Match(buildFrame(t, layers.IPProtocolUDP, 53, 53)))
}

func TestFilter_ProtocolOnly(t *testing.T) {
	f, err := Compile("tcp", 0)
	require.NoError(t, err)

	assert.True(t, f.Match(buildFrame(t, layers.IPProtocolTCP, 1234, 80)))
	assert.False(t, f.Match(buildFrame(t, layers.IPProtocolUDP, 1234, 80)))
}

func TestFilter_Port(t *testing.T) {
	f, err := Compile("tcp", 80)
	require.NoError(t, err)

	// matches either direction
	assert.True(t, f.Match(buildFrame(t, layers.IPProtocolTCP, 1234, 80)))
	assert.True(t, f.Match(buildFrame(t, layers.IPProtocolTCP, 80, 1234)))
	assert.False(t, f.Match(buildFrame(t, layers.IPProtocolTCP, 1234, 443)))
	assert.False(t, f.Match(buildFrame(t, layers.IPProtocolUDP, 1234, 80)))
}

func TestFilter_UDPPort(t *testing.T) {
	f, err := Compile("udp", 5060)
	require.NoError(t, err)

	assert.True(t, f.Match(buildFrame(t, layers.IPProtocolUDP, 5060, 40000)))
	assert.False(t, f.Match(buildFrame(t, layers.IPProtocolUDP, 53, 53)))
}

func TestFilter_NonIPRejected(t *testing.T) {
	f, err := Compile("tcp", 0)
	require.NoError(t, err)

	frame := make([]byte, 20)
	frame[12], frame[13] = 0x08, 0x06 // arp
	assert.False(t, f.Match(frame))
}

func TestFilter_BadArguments(t *testing.T) {
	_, err := Compile("sctp", 0)
	assert.Error(t, err)

	_, err = Compile("icmp", 80)
	assert.Error(t, err)

	_, err = Compile("", 80)
	assert.Error(t, err)
}

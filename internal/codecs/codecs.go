// Package codecs wires every built-in protocol codec into a registry.
package codecs

import (
	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/codecs/arp"
	"github.com/StartiOne/snort3/internal/codecs/eth"
	"github.com/StartiOne/snort3/internal/codecs/icmp4"
	"github.com/StartiOne/snort3/internal/codecs/icmp6"
	"github.com/StartiOne/snort3/internal/codecs/ipv4"
	"github.com/StartiOne/snort3/internal/codecs/ipv6"
	"github.com/StartiOne/snort3/internal/codecs/mpls"
	"github.com/StartiOne/snort3/internal/codecs/tcp"
	"github.com/StartiOne/snort3/internal/codecs/udp"
	"github.com/StartiOne/snort3/internal/codecs/vlan"
	"github.com/StartiOne/snort3/internal/config"
	"github.com/StartiOne/snort3/internal/dispatch"
)

// APIs lists the built-in registration records in load order.
var APIs = []*codec.CodecAPI{
	eth.API,
	vlan.API,
	arp.API,
	mpls.API,
	ipv4.API,
	ipv6.API,
	ipv6.HopOptsAPI,
	ipv6.RoutingAPI,
	ipv6.FragAPI,
	ipv6.DstOptsAPI,
	tcp.API,
	udp.API,
	icmp4.API,
	icmp6.API,
}

// RegisterAll registers every built-in codec with options drawn from
// the configuration.
func RegisterAll(reg *dispatch.Registry, cfg *config.Config) error {
	for _, api := range APIs {
		if err := reg.Register(api, cfg.CodecOptions(api.Name)); err != nil {
			return err
		}
	}
	if cfg.Decoder.MaxLayers > 0 {
		reg.MaxLayers = cfg.Decoder.MaxLayers
	}
	return nil
}

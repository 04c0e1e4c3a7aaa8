// Package dispatch owns the codec registry and drives the decode and
// encode loops across a packet's layer stack.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/google/gopacket/layers"

	"github.com/StartiOne/snort3/internal/codec"
)

// Registry maps link-layer types and protocol ids to codec instances.
// It is built once from every registered codec's declared claims and is
// read-only during steady-state packet processing.
type Registry struct {
	mu sync.RWMutex

	apis    []*codec.CodecAPI
	byName  map[string]*codec.CodecAPI
	codecs  map[string]codec.Codec
	byLink  map[layers.LinkType]codec.Codec
	byProto map[uint16]codec.Codec

	// MaxLayers bounds the decode walk per packet.
	MaxLayers int
}

func NewRegistry() *Registry {
	return &Registry{
		byName:    make(map[string]*codec.CodecAPI),
		codecs:    make(map[string]codec.Codec),
		byLink:    make(map[layers.LinkType]codec.Codec),
		byProto:   make(map[uint16]codec.Codec),
		MaxLayers: 32,
	}
}

// Register runs the record's global init hook, constructs the codec
// instance with opts, and claims its declared link types and protocol
// ids. Duplicate claims are rejected.
func (r *Registry) Register(api *codec.CodecAPI, opts map[string]any) error {
	if err := api.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[api.Name]; exists {
		return fmt.Errorf("codec '%s' already registered", api.Name)
	}

	if api.PInit != nil {
		api.PInit()
	}
	c := api.Ctor(opts)

	for _, lt := range c.DataLinkTypes() {
		if prev, exists := r.byLink[lt]; exists {
			return fmt.Errorf("link type %d claimed by both '%s' and '%s': %w",
				lt, prev.Name(), api.Name, codec.ErrDuplicateClaim)
		}
		r.byLink[lt] = c
	}
	for _, id := range c.ProtocolIDs() {
		if prev, exists := r.byProto[id]; exists {
			return fmt.Errorf("protocol id 0x%04X claimed by both '%s' and '%s': %w",
				id, prev.Name(), api.Name, codec.ErrDuplicateClaim)
		}
		r.byProto[id] = c
	}

	r.apis = append(r.apis, api)
	r.byName[api.Name] = api
	r.codecs[api.Name] = c
	return nil
}

// RootCodec looks up the codec claiming a link-layer type.
func (r *Registry) RootCodec(lt layers.LinkType) (codec.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byLink[lt]
	return c, ok
}

// Lookup finds the codec claiming a protocol id or ethertype.
func (r *Registry) Lookup(proto uint16) (codec.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byProto[proto]
	return c, ok
}

// Shutdown destroys every codec instance and runs the global teardown
// hooks in reverse registration order.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.apis) - 1; i >= 0; i-- {
		api := r.apis[i]
		if c, ok := r.codecs[api.Name]; ok {
			api.Dtor(c)
		}
		if api.PTerm != nil {
			api.PTerm()
		}
	}
	r.apis = nil
	r.byName = make(map[string]*codec.CodecAPI)
	r.codecs = make(map[string]codec.Codec)
	r.byLink = make(map[layers.LinkType]codec.Codec)
	r.byProto = make(map[uint16]codec.Codec)
}

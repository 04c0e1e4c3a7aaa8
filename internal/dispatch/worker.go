package dispatch

import (
	"fmt"

	"github.com/google/gopacket/layers"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/log"
)

// Worker runs full decode/encode pipelines for one goroutine. Workers
// hold their own scratch state and are never shared; parallelism exists
// only across packets, one worker each.
type Worker struct {
	reg       *Registry
	buf       *codec.Buffer
	maxLayers int
}

// NewWorker creates a worker and runs every registered codec's
// per-worker init hook. Close must run before the goroutine exits.
func (r *Registry) NewWorker() *Worker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, api := range r.apis {
		if api.TInit != nil {
			api.TInit()
		}
	}
	return &Worker{
		reg:       r,
		buf:       codec.NewBuffer(codec.PktMax),
		maxLayers: r.MaxLayers,
	}
}

// Close runs the per-worker teardown hooks in reverse order.
func (w *Worker) Close() {
	w.reg.mu.RLock()
	defer w.reg.mu.RUnlock()
	for i := len(w.reg.apis) - 1; i >= 0; i-- {
		if t := w.reg.apis[i].TTerm; t != nil {
			t()
		}
	}
}

// Decode walks the frame's layer stack, following each codec's
// NextProtID until a codec reports no further layers, the bytes run
// out, or no codec claims the next protocol (the remainder is payload).
//
// A decode failure is terminal unless the immediately enclosing layer
// marked itself an uncertain encapsulation boundary; then the failed
// interpretation is discarded and the bytes from the boundary onward
// become opaque payload of the enclosing layer. The marking is
// single-shot: it covers only the one next layer.
func (w *Worker) Decode(frame []byte, lt layers.LinkType) (*codec.Packet, error) {
	p := &codec.Packet{}
	p.Reset(frame)

	c, ok := w.reg.RootCodec(lt)
	if !ok {
		p.DecodeError = codec.ErrUnknownLinkType
		return p, fmt.Errorf("link type %d: %w", lt, codec.ErrUnknownLinkType)
	}

	var offset uint32
	cd := codec.NewCodecData(uint16(lt))
	prevFlags := uint16(0)

	for n := 0; n < w.maxLayers; n++ {
		selected := cd.NextProtID
		cur := cd.NextLayer()

		unsure := prevFlags&codec.CodecEncapLayer == codec.CodecEncapLayer
		if unsure {
			cur.CodecFlags |= codec.CodecUnsureEncap
		}

		raw := codec.NewRawData(frame[offset:])
		if err := c.Decode(raw, &cur, &p.Snort); err != nil {
			if unsure {
				// enclosing layer absorbs the failure; remaining
				// bytes are its payload
				break
			}
			p.DecodeError = err
			p.PayloadOffset = offset
			return p, fmt.Errorf("decoding %s layer at offset %d: %w", c.Name(), offset, err)
		}

		p.Layers = append(p.Layers, codec.Layer{
			ProtoID:      selected,
			Start:        offset,
			Length:       cur.LyrLen,
			InvalidBytes: cur.InvalidBytes,
			Codec:        c,
		})

		offset += uint32(cur.LyrLen) + uint32(cur.InvalidBytes)
		prevFlags = cur.CodecFlags
		cd = cur

		if cd.NextProtID == codec.ProtoFinishedDecode || offset >= uint32(len(frame)) {
			break
		}
		next, ok := w.reg.Lookup(cd.NextProtID)
		if !ok {
			break
		}
		c = next
	}

	p.PayloadOffset = offset
	p.ProtoBits = cd.ProtoBits
	return p, nil
}

// Encode rebuilds a response packet from the saved layer stack,
// innermost layer first. flags steers direction, TTL policy, stop
// conditions and TCP flag injection; ttl is the override value used
// when EncFlagTTL is set. The partially built buffer is discarded on
// any failure.
func (w *Worker) Encode(p *codec.Packet, flags codec.EncodeFlags, ttl uint8) ([]byte, error) {
	if len(p.Layers) == 0 {
		return nil, fmt.Errorf("encode: packet has no decoded layers")
	}

	payload := p.Payload()
	es := codec.NewEncState(&p.Snort.IPAPI, flags, codec.ProtoUnset, ttl, uint16(len(payload)))

	buf := w.buf
	buf.Clear()

	first := len(p.Layers) - 1
	if flags&codec.EncFlagNet != 0 {
		if idx := innermostNetwork(p); idx >= 0 {
			first = idx
		}
	} else if flags&codec.EncFlagPay != 0 && len(payload) > 0 {
		region, ok := buf.Allocate(uint32(len(payload)))
		if !ok {
			return nil, codec.ErrBufferOverflow
		}
		copy(region, payload)
	}

	for i := first; i >= 0; i-- {
		lyr := &p.Layers[i]
		if i == 0 && flags&codec.EncFlagRaw != 0 && len(lyr.Codec.DataLinkTypes()) > 0 {
			break
		}
		if err := lyr.Codec.Encode(lyr.Bytes(p.Data), lyr.Length, &es, buf); err != nil {
			buf.Clear()
			return nil, fmt.Errorf("encoding %s layer: %w", lyr.Codec.Name(), err)
		}
	}

	out := make([]byte, buf.Size())
	copy(out, buf.Data())
	return out, nil
}

// LogPacket renders every decoded layer to the text sink.
func LogPacket(tl *log.TextLog, p *codec.Packet) {
	for i := range p.Layers {
		lyr := &p.Layers[i]
		tl.Print("%s: ", lyr.Codec.Name())
		lyr.Codec.Log(tl, lyr.Bytes(p.Data), p)
		tl.NewLine()
	}
}

func innermostNetwork(p *codec.Packet) int {
	for i := len(p.Layers) - 1; i >= 0; i-- {
		switch p.Layers[i].ProtoID {
		case codec.EthertypeIPv4, codec.EthertypeIPv6,
			uint16(codec.IPProtoIPIP), uint16(codec.IPProtoIPv6):
			return i
		}
	}
	return -1
}

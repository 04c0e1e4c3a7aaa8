package codec

// Layer records one decoded protocol header: where it starts in the
// frame, the validated length the codec reported, any trailing invalid
// bytes, and the codec that claimed it. The saved layer stack drives the
// inside-out encode pass.
type Layer struct {
	ProtoID      uint16
	Start        uint32
	Length       uint16
	InvalidBytes uint16
	Codec        Codec
}

// Bytes returns the layer's validated slice of the frame.
func (l *Layer) Bytes(frame []byte) []byte {
	return frame[l.Start : l.Start+uint32(l.Length)]
}

// Packet holds one decoded frame: the raw bytes, the accumulated
// per-packet convenience state, and the saved layer stack. Everything
// here is worker-local; packets are never shared across workers.
type Packet struct {
	Data  []byte
	Snort SnortData

	Layers []Layer

	// PayloadOffset is where application payload begins after the last
	// decoded layer. Bytes past it belong to no layer.
	PayloadOffset uint32

	// ProtoBits accumulates the protocol-presence bits of every
	// decoded layer.
	ProtoBits uint16

	// DecodeError is the terminal decode failure, if any. Layers
	// decoded before the failure remain valid.
	DecodeError error
}

// Payload returns the undecoded remainder of the frame.
func (p *Packet) Payload() []byte {
	if int(p.PayloadOffset) >= len(p.Data) {
		return nil
	}
	return p.Data[p.PayloadOffset:]
}

// Reset prepares the packet for reuse with a new frame.
func (p *Packet) Reset(frame []byte) {
	p.Data = frame
	p.Snort.Reset()
	p.Layers = p.Layers[:0]
	p.PayloadOffset = 0
	p.ProtoBits = 0
	p.DecodeError = nil
}

// Package source provides the frame sources that feed the decode
// pipeline.
package source

import (
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Source yields raw frames with their capture metadata. ReadPacket
// returns io.EOF when the source is exhausted.
type Source interface {
	ReadPacket() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
	Close() error
}

// FileSource replays a pcap capture file.
type FileSource struct {
	f *os.File
	r *pcapgo.Reader
}

// OpenFile opens a pcap capture for replay.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture: %w", err)
	}
	r, err := pcapgo.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading capture %s: %w", path, err)
	}
	return &FileSource{f: f, r: r}, nil
}

func (s *FileSource) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	return s.r.ReadPacketData()
}

func (s *FileSource) LinkType() layers.LinkType {
	return s.r.LinkType()
}

func (s *FileSource) Close() error {
	return s.f.Close()
}

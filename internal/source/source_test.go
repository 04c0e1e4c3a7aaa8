package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCapture(t *testing.T, frames [][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65535, layers.LinkTypeEthernet))
	for _, frame := range frames {
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Now(),
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		require.NoError(t, w.WritePacket(ci, frame))
	}
	return path
}

func TestFileSource_Replay(t *testing.T) {
	frames := [][]byte{
		make([]byte, 60),
		make([]byte, 100),
	}
	frames[0][0] = 0xAA
	frames[1][0] = 0xBB

	s, err := OpenFile(writeCapture(t, frames))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, layers.LinkTypeEthernet, s.LinkType())

	for i, want := range frames {
		got, ci, err := s.ReadPacket()
		require.NoError(t, err, "frame %d", i)
		assert.Equal(t, want, got)
		assert.Equal(t, len(want), ci.CaptureLength)
	}

	_, _, err = s.ReadPacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := OpenFile("/nonexistent/capture.pcap")
	assert.Error(t, err)
}

func TestFileSource_NotACapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pcap")
	require.NoError(t, os.WriteFile(path, []byte("not a capture"), 0o644))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

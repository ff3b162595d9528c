package session

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jevinskie/nih-sftpd/internal/binp"
)

func TestReadFrameRoundTrip(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	payload := []byte{1, 2, 3, 4, 5}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	go func() {
		_, _ = w.Write(hdr[:])
		_, _ = w.Write(payload)
		w.Close()
	}()

	ib := binp.NewPacketBuffer(64)
	ok, err := ReadFrame(int(r.Fd()), ib)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, len(payload), ib.Remaining())
	require.Equal(t, payload, ib.Raw()[:len(payload)])
}

func TestReadFrameCleanEOF(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	w.Close()

	ib := binp.NewPacketBuffer(64)
	ok, err := ReadFrame(int(r.Fd()), ib)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], 1<<20)
	go func() {
		_, _ = w.Write(hdr[:])
		w.Close()
	}()

	ib := binp.NewPacketBuffer(64)
	ok, err := ReadFrame(int(r.Fd()), ib)
	require.Error(t, err)
	require.False(t, ok)
}

func TestWriteFrameDrainsFully(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()

	frame := []byte{0, 0, 0, 3, 9, 8, 7}
	errCh := make(chan error, 1)
	go func() { errCh <- WriteFrame(int(w.Fd()), frame) }()

	buf := make([]byte, len(frame))
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(frame), n)
	require.Equal(t, frame, buf)
	require.NoError(t, <-errCh)
}

package docker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/pkg/stdcopy"
)

const (
	// frameHeaderLen is the length of the daemon's multiplexing header:
	// one stream-type byte, three padding bytes, and a big-endian uint32
	// payload size.
	frameHeaderLen = 8

	// frameSizeIndex is the offset of the payload size within the header.
	frameSizeIndex = 4

	// maxFrameSize is the maximum accepted frame payload (16 MiB).
	maxFrameSize = 16 << 20
)

// streamReader demultiplexes the Docker log stream into payload chunks,
// implementing dockerexec.LogReader. Non-TTY containers multiplex stdout
// and stderr over one connection with a per-frame header.
type streamReader struct {
	rc     io.ReadCloser
	header [frameHeaderLen]byte
}

func newStreamReader(rc io.ReadCloser) *streamReader {
	return &streamReader{rc: rc}
}

// Next returns the next non-empty frame payload, or io.EOF once the stream
// ends cleanly between frames.
func (r *streamReader) Next() ([]byte, error) {
	for {
		if _, err := io.ReadFull(r.rc, r.header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("log stream: truncated frame header: %w", err)
		}

		size := binary.BigEndian.Uint32(r.header[frameSizeIndex : frameSizeIndex+4])
		if size > maxFrameSize {
			return nil, fmt.Errorf("log stream: frame size %d exceeds maximum %d", size, maxFrameSize)
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(r.rc, payload); err != nil {
			return nil, fmt.Errorf("log stream: truncated frame payload: %w", err)
		}

		switch stdcopy.StdType(r.header[0]) {
		case stdcopy.Stdin, stdcopy.Stdout, stdcopy.Stderr:
			if size == 0 {
				continue
			}
			return payload, nil
		case stdcopy.Systemerr:
			return nil, fmt.Errorf("log stream: error from daemon: %s", payload)
		default:
			return nil, fmt.Errorf("log stream: unknown stream type %d", r.header[0])
		}
	}
}

func (r *streamReader) Close() error {
	return r.rc.Close()
}

package dockerexec

import (
	"errors"
	"io"
	"testing"
)

// sliceReader replays fixed chunks, optionally failing partway through.
type sliceReader struct {
	chunks [][]byte
	pos    int
	err    error // returned once chunks are exhausted, instead of io.EOF
}

func (r *sliceReader) Next() ([]byte, error) {
	if r.pos >= len(r.chunks) {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	c := r.chunks[r.pos]
	r.pos++
	return c, nil
}

func (r *sliceReader) Close() error { return nil }

func TestCollectOutputConcatenatesInOrder(t *testing.T) {
	r := &sliceReader{chunks: [][]byte{[]byte("one "), []byte("two "), []byte("three")}}

	got, err := collectOutput(r, nil)
	if err != nil {
		t.Fatalf("collectOutput: %v", err)
	}
	if got != "one two three" {
		t.Errorf("output = %q, want %q", got, "one two three")
	}
}

func TestCollectOutputEmptyStream(t *testing.T) {
	got, err := collectOutput(&sliceReader{}, nil)
	if err != nil {
		t.Fatalf("collectOutput: %v", err)
	}
	if got != "" {
		t.Errorf("output = %q, want empty", got)
	}
}

func TestCollectOutputTrimsOnlyOuterWhitespace(t *testing.T) {
	r := &sliceReader{chunks: [][]byte{[]byte("\n  first"), []byte(" second  \n\n")}}

	got, err := collectOutput(r, nil)
	if err != nil {
		t.Fatalf("collectOutput: %v", err)
	}
	if got != "first second" {
		t.Errorf("output = %q, want %q", got, "first second")
	}
}

func TestCollectOutputTapSeesEveryChunk(t *testing.T) {
	r := &sliceReader{chunks: [][]byte{[]byte("a"), []byte("b")}}

	var taps []string
	if _, err := collectOutput(r, func(chunk string) { taps = append(taps, chunk) }); err != nil {
		t.Fatalf("collectOutput: %v", err)
	}
	if len(taps) != 2 || taps[0] != "a" || taps[1] != "b" {
		t.Errorf("taps = %v, want [a b]", taps)
	}
}

func TestCollectOutputReaderError(t *testing.T) {
	cause := errors.New("stream torn down")
	r := &sliceReader{chunks: [][]byte{[]byte("partial")}, err: cause}

	_, err := collectOutput(r, nil)
	var engineErr *EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("error = %v, want *EngineError", err)
	}
	if engineErr.Op != "logs" {
		t.Errorf("Op = %q, want %q", engineErr.Op, "logs")
	}
	if !errors.Is(err, cause) {
		t.Error("error does not wrap the reader failure")
	}
}

func TestCollectOutputInvalidChunk(t *testing.T) {
	r := &sliceReader{chunks: [][]byte{[]byte("fine"), {'a', 'b', 0xc0}}}

	_, err := collectOutput(r, nil)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if decodeErr.Off != 2 {
		t.Errorf("Off = %d, want 2", decodeErr.Off)
	}
}

func TestCollectOutputRuneSplitAcrossChunks(t *testing.T) {
	// "é" is 0xC3 0xA9; split across chunk boundaries each half is invalid
	// on its own, and validation is strictly per chunk.
	r := &sliceReader{chunks: [][]byte{{0xc3}, {0xa9}}}

	_, err := collectOutput(r, nil)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if decodeErr.Off != 0 {
		t.Errorf("Off = %d, want 0", decodeErr.Off)
	}
}

func TestInvalidUTF8(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		wantOff int
		wantBad bool
	}{
		{name: "ascii", in: []byte("hello"), wantBad: false},
		{name: "multibyte", in: []byte("héllo 世界"), wantBad: false},
		{name: "empty", in: nil, wantBad: false},
		{name: "bad first byte", in: []byte{0xff, 'a'}, wantOff: 0, wantBad: true},
		{name: "bad after ascii", in: []byte{'a', 'b', 0xfe}, wantOff: 2, wantBad: true},
		{name: "bad after multibyte", in: append([]byte("é"), 0x80), wantOff: 2, wantBad: true},
		{name: "truncated sequence", in: []byte{0xe2, 0x82}, wantOff: 0, wantBad: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, bad := invalidUTF8(tt.in)
			if bad != tt.wantBad {
				t.Fatalf("invalidUTF8(%v) bad = %v, want %v", tt.in, bad, tt.wantBad)
			}
			if bad && off != tt.wantOff {
				t.Errorf("invalidUTF8(%v) off = %d, want %d", tt.in, off, tt.wantOff)
			}
		})
	}
}

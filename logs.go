package dockerexec

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// collectOutput drains r, validating each chunk as UTF-8 and concatenating
// them in order. The result is trimmed of leading and trailing whitespace
// exactly once, after the full stream has been read. When tap is non-nil
// it observes each decoded chunk before aggregation.
func collectOutput(r LogReader, tap func(chunk string)) (string, error) {
	var b strings.Builder
	for {
		chunk, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", &EngineError{Op: "logs", Err: err}
		}
		if off, ok := invalidUTF8(chunk); ok {
			return "", &DecodeError{Off: off}
		}
		s := string(chunk)
		if tap != nil {
			tap(s)
		}
		b.WriteString(s)
	}
	return strings.TrimSpace(b.String()), nil
}

// invalidUTF8 reports whether b contains an invalid UTF-8 sequence and the
// offset of the first one.
func invalidUTF8(b []byte) (int, bool) {
	if utf8.Valid(b) {
		return 0, false
	}
	off := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return off, true
		}
		b = b[size:]
		off += size
	}
	// Unreachable: utf8.Valid already found an invalid sequence.
	return off, true
}

// Package sse reads newline-delimited event-stream frames from a live
// response body. It is intentionally minimal for the research backend's
// OpenAI-style stream.
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Frame is one non-blank line of the wire protocol, split into its field
// name and raw value. For a line "data: {...}" the Field is "data" and the
// Value is the payload with one leading space removed. A line with no colon
// yields the whole line as Field and an empty Value.
type Frame struct {
	Field string
	Value string
}

// Reader turns a byte stream into an ordered sequence of frames. It buffers
// any trailing partial line across reads and flushes it as a final frame at
// end of stream. A Reader is tied to one underlying stream and cannot be
// restarted.
type Reader struct {
	r   *bufio.Reader
	cur Frame
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next advances to the next frame. It returns false at end of stream or on a
// read error; check Err afterwards. Blank lines produce no frames.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Flush a final unterminated line, if any.
				if line = strings.TrimRight(line, "\r"); line != "" {
					r.err = io.EOF
					r.cur = splitFrame(line)
					return true
				}
			}
			r.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		r.cur = splitFrame(line)
		return true
	}
}

// Frame returns the frame read by the last successful Next.
func (r *Reader) Frame() Frame {
	return r.cur
}

// Err returns the first non-EOF error encountered while reading.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

func splitFrame(line string) Frame {
	field, value, ok := strings.Cut(line, ":")
	if !ok {
		return Frame{Field: line}
	}
	return Frame{Field: field, Value: strings.TrimPrefix(value, " ")}
}

package sse

import (
	"io"
	"strings"
	"testing"
)

func TestReader(t *testing.T) {
	in := strings.Join([]string{
		": ping",
		"",
		"data: {\"a\":1}",
		"",
		"event: ignored",
		"data: [DONE]",
		"",
	}, "\n")

	r := NewReader(strings.NewReader(in))

	want := []Frame{
		{Field: "", Value: "ping"},
		{Field: "data", Value: `{"a":1}`},
		{Field: "event", Value: "ignored"},
		{Field: "data", Value: "[DONE]"},
	}
	for i, w := range want {
		if !r.Next() {
			t.Fatalf("frame %d: expected Next()=true", i)
		}
		if got := r.Frame(); got != w {
			t.Fatalf("frame %d: got %+v, want %+v", i, got, w)
		}
	}
	if r.Next() {
		t.Fatalf("expected end of stream, got %+v", r.Frame())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err=%v", err)
	}
}

// chunkReader delivers its input in fixed-size slices to exercise the
// partial-line buffer.
type chunkReader struct {
	data []byte
	n    int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.n
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestReaderSplitAcrossReads(t *testing.T) {
	in := "data: first line\ndata: second line\n"
	for _, size := range []int{1, 2, 3, 7} {
		r := NewReader(&chunkReader{data: []byte(in), n: size})

		if !r.Next() || r.Frame().Value != "first line" {
			t.Fatalf("chunk=%d: first frame %+v", size, r.Frame())
		}
		if !r.Next() || r.Frame().Value != "second line" {
			t.Fatalf("chunk=%d: second frame %+v", size, r.Frame())
		}
		if r.Next() {
			t.Fatalf("chunk=%d: unexpected extra frame", size)
		}
		if err := r.Err(); err != nil {
			t.Fatalf("chunk=%d: Err=%v", size, err)
		}
	}
}

func TestReaderFlushesUnterminatedLine(t *testing.T) {
	r := NewReader(strings.NewReader("data: a\ndata: trailing"))

	if !r.Next() || r.Frame().Value != "a" {
		t.Fatalf("first frame %+v", r.Frame())
	}
	if !r.Next() {
		t.Fatalf("expected trailing frame before EOF")
	}
	if got := r.Frame(); got.Field != "data" || got.Value != "trailing" {
		t.Fatalf("trailing frame %+v", got)
	}
	if r.Next() {
		t.Fatalf("expected end of stream")
	}
}

func TestReaderCRLF(t *testing.T) {
	r := NewReader(strings.NewReader("data: x\r\n\r\ndata: y\r\n"))

	if !r.Next() || r.Frame().Value != "x" {
		t.Fatalf("first frame %+v", r.Frame())
	}
	if !r.Next() || r.Frame().Value != "y" {
		t.Fatalf("second frame %+v", r.Frame())
	}
	if r.Next() {
		t.Fatalf("expected end of stream")
	}
}

func TestReaderNoColon(t *testing.T) {
	r := NewReader(strings.NewReader("weird\n"))
	if !r.Next() {
		t.Fatalf("expected one frame")
	}
	if got := r.Frame(); got.Field != "weird" || got.Value != "" {
		t.Fatalf("frame %+v", got)
	}
}

func TestReaderPropagatesReadError(t *testing.T) {
	r := NewReader(io.MultiReader(strings.NewReader("data: ok\n"), &failReader{}))

	if !r.Next() || r.Frame().Value != "ok" {
		t.Fatalf("first frame %+v", r.Frame())
	}
	if r.Next() {
		t.Fatalf("expected failure, got %+v", r.Frame())
	}
	if err := r.Err(); err == nil {
		t.Fatalf("expected read error")
	}
}

type failReader struct{}

func (*failReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

package stream

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns raw response chunks into newline-delimited text frames.
// Incomplete UTF-8 sequences at the end of a chunk are carried into the next
// Feed; invalid bytes decode to U+FFFD.
type Decoder struct {
	utf8    transform.Transformer
	pending []byte // undecoded trailing bytes
	line    strings.Builder
	flushed bool
}

// NewDecoder creates a decoder for a single response body.
func NewDecoder() *Decoder {
	return &Decoder{utf8: unicode.UTF8.NewDecoder()}
}

// Feed decodes chunk and returns every line completed by it, in order,
// without the terminating newline.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.flushed || len(chunk) == 0 {
		return nil
	}
	d.pending = append(d.pending, chunk...)
	return d.split(d.decode(false))
}

// Flush decodes whatever is still buffered and returns it as the final frame.
// The boolean is false when nothing remained. Feed is a no-op afterwards.
func (d *Decoder) Flush() (string, bool) {
	if d.flushed {
		return "", false
	}
	d.flushed = true

	// Carried bytes are at most one truncated multi-byte sequence, never a
	// newline, so they only extend the current line.
	d.line.WriteString(d.decode(true))
	rest := d.line.String()
	d.line.Reset()
	if rest == "" {
		return "", false
	}
	return rest, true
}

func (d *Decoder) decode(atEOF bool) string {
	var out strings.Builder
	src := d.pending
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	for {
		nDst, nSrc, err := d.utf8.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]
		if err == transform.ErrShortDst {
			continue
		}
		// ErrShortSrc leaves a partial sequence in src for the next call.
		break
	}
	d.pending = append(d.pending[:0], src...)
	return out.String()
}

func (d *Decoder) split(text string) []string {
	var frames []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			d.line.WriteString(text)
			return frames
		}
		d.line.WriteString(text[:i])
		frames = append(frames, d.line.String())
		d.line.Reset()
		text = text[i+1:]
	}
}

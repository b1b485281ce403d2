package llm

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type parserState int

const (
	stateStart parserState = iota
	stateExpectKey
	stateKey
	stateExpectColon
	stateExpectValue
	stateString
	stateOther
	stateAfterValue
	stateDone
)

// ArgumentChunk is newly decoded text of one string argument.
type ArgumentChunk struct {
	ArgumentName string
	Chunk        string
}

// ToolCallArgumentParser incrementally scans the arguments text of a tool
// call and reports the decoded text of top-level string values as it
// arrives. Values of other types are skipped. The output is for display only;
// the finalized call is authoritative.
type ToolCallArgumentParser struct {
	state  parserState
	key    strings.Builder
	values map[string]*strings.Builder

	currentArg string
	escape     []byte // pending escape sequence, starting with '\\'
	highSurr   rune   // high surrogate waiting for its pair

	// nested value skipping
	depth       int
	otherString bool
	otherEscape bool
}

// NewToolCallArgumentParser creates a new parser instance
func NewToolCallArgumentParser() *ToolCallArgumentParser {
	return &ToolCallArgumentParser{values: make(map[string]*strings.Builder)}
}

// AddChunk consumes the next piece of arguments text. It returns at most one
// chunk per argument, in the order the arguments were encountered.
func (p *ToolCallArgumentParser) AddChunk(chunk string) []ArgumentChunk {
	var out []ArgumentChunk
	var pending strings.Builder

	emit := func() {
		if pending.Len() > 0 {
			out = append(out, ArgumentChunk{ArgumentName: p.currentArg, Chunk: pending.String()})
			pending.Reset()
		}
	}
	write := func(s string) {
		pending.WriteString(s)
		p.values[p.currentArg].WriteString(s)
	}

	for i := 0; i < len(chunk); i++ {
		c := chunk[i]
		switch p.state {
		case stateStart:
			if c == '{' {
				p.state = stateExpectKey
			}
		case stateExpectKey:
			switch c {
			case '"':
				p.key.Reset()
				p.state = stateKey
			case '}':
				p.state = stateDone
			}
		case stateKey:
			switch {
			case len(p.escape) > 0:
				p.escape = append(p.escape, c)
				if s, ok := p.flushEscape(); ok {
					p.key.WriteString(s)
				}
			case c == '\\':
				p.escape = append(p.escape, c)
			case c == '"':
				p.state = stateExpectColon
			default:
				p.key.WriteByte(c)
			}
		case stateExpectColon:
			if c == ':' {
				p.state = stateExpectValue
			}
		case stateExpectValue:
			switch c {
			case ' ', '\t', '\n', '\r':
			case '"':
				p.currentArg = p.key.String()
				p.values[p.currentArg] = &strings.Builder{}
				p.state = stateString
			case '{', '[':
				p.depth = 1
				p.state = stateOther
			default:
				p.depth = 0
				p.state = stateOther
			}
		case stateString:
			switch {
			case len(p.escape) > 0:
				p.escape = append(p.escape, c)
				if s, ok := p.flushEscape(); ok {
					write(s)
				}
			case c == '\\':
				p.escape = append(p.escape, c)
			case c == '"':
				p.flushSurrogate(write)
				emit()
				p.state = stateAfterValue
			default:
				p.flushSurrogate(write)
				j := i
				for j < len(chunk) && chunk[j] != '"' && chunk[j] != '\\' {
					j++
				}
				write(chunk[i:j])
				i = j - 1
			}
		case stateOther:
			if p.skipOther(c) {
				// the terminator of a scalar belongs to the enclosing object
				i--
				p.state = stateAfterValue
			}
		case stateAfterValue:
			switch c {
			case ',':
				p.state = stateExpectKey
			case '}':
				p.state = stateDone
			}
		}
	}
	emit()
	return out
}

// skipOther advances over a non-string value. It returns true when c ends a
// scalar and must be reprocessed.
func (p *ToolCallArgumentParser) skipOther(c byte) bool {
	if p.otherString {
		switch {
		case p.otherEscape:
			p.otherEscape = false
		case c == '\\':
			p.otherEscape = true
		case c == '"':
			p.otherString = false
		}
		return false
	}
	switch c {
	case '"':
		p.otherString = true
	case '{', '[':
		p.depth++
	case '}', ']':
		if p.depth == 0 {
			return true
		}
		p.depth--
		if p.depth == 0 {
			p.state = stateAfterValue
		}
	case ',':
		if p.depth == 0 {
			return true
		}
	}
	return false
}

// flushEscape decodes p.escape once it is complete.
func (p *ToolCallArgumentParser) flushEscape() (string, bool) {
	seq := p.escape
	if len(seq) < 2 {
		return "", false
	}
	if seq[1] == 'u' {
		if len(seq) < 6 {
			return "", false
		}
		p.escape = p.escape[:0]
		n, err := strconv.ParseUint(string(seq[2:6]), 16, 16)
		if err != nil {
			return string(utf8.RuneError), true
		}
		r := rune(n)
		switch {
		case utf16.IsSurrogate(r) && r < 0xdc00:
			p.highSurr = r
			return "", true
		case utf16.IsSurrogate(r):
			hi := p.highSurr
			p.highSurr = 0
			return string(utf16.DecodeRune(hi, r)), true
		}
		return p.takeSurrogate() + string(r), true
	}

	p.escape = p.escape[:0]
	var s string
	switch seq[1] {
	case 'n':
		s = "\n"
	case 't':
		s = "\t"
	case 'r':
		s = "\r"
	case 'b':
		s = "\b"
	case 'f':
		s = "\f"
	default:
		// '"', '\\', '/' and anything unexpected stand for themselves
		s = string(seq[1])
	}
	return p.takeSurrogate() + s, true
}

func (p *ToolCallArgumentParser) takeSurrogate() string {
	if p.highSurr == 0 {
		return ""
	}
	p.highSurr = 0
	return string(utf8.RuneError)
}

func (p *ToolCallArgumentParser) flushSurrogate(write func(string)) {
	if s := p.takeSurrogate(); s != "" {
		write(s)
	}
}

// CurrentArgument returns the name of the string argument being parsed.
func (p *ToolCallArgumentParser) CurrentArgument() string {
	return p.currentArg
}

// Value returns the decoded text of a string argument seen so far.
func (p *ToolCallArgumentParser) Value(name string) (string, bool) {
	b, ok := p.values[name]
	if !ok {
		return "", false
	}
	return b.String(), true
}

// Done reports whether the closing brace of the arguments object was seen.
func (p *ToolCallArgumentParser) Done() bool {
	return p.state == stateDone
}

// Reset clears the parser state
func (p *ToolCallArgumentParser) Reset() {
	*p = ToolCallArgumentParser{values: make(map[string]*strings.Builder)}
}

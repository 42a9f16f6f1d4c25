package canonical

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse decodes canonical bytes back into a Value. It accepts only the
// canonical serialization that Encode produces: no whitespace, sorted map
// keys, minimal escapes. Non-canonical input is rejected so a parsed Value
// always re-encodes to the exact input bytes.
func Parse(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return Value{}, errors.New("canonical: input must be valid UTF-8")
	}
	p := &parser{in: string(data)}
	v, err := p.value()
	if err != nil {
		return Value{}, err
	}
	if p.pos != len(p.in) {
		return Value{}, fmt.Errorf("canonical: trailing data at offset %d", p.pos)
	}
	return v, nil
}

type parser struct {
	in  string
	pos int
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("canonical: "+format+" at offset %d", append(args, p.pos)...)
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.in) {
		return 0, false
	}
	return p.in[p.pos], true
}

func (p *parser) value() (Value, error) {
	c, ok := p.peek()
	if !ok {
		return Value{}, p.errf("unexpected end of input")
	}
	switch {
	case c == 'n':
		return p.literal("null", Null())
	case c == 't':
		return p.literal("true", BoolValue(true))
	case c == 'f':
		return p.literal("false", BoolValue(false))
	case c == '"':
		s, err := p.quoted()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case c == '[':
		return p.list()
	case c == '{':
		return p.object()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	}
	return Value{}, p.errf("unexpected byte %q", c)
}

func (p *parser) literal(lit string, v Value) (Value, error) {
	if !strings.HasPrefix(p.in[p.pos:], lit) {
		return Value{}, p.errf("invalid literal")
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) list() (Value, error) {
	p.pos++ // '['
	var items []Value
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return Value{Kind: KindList, List: items}, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
		c, ok := p.peek()
		if !ok {
			return Value{}, p.errf("unterminated list")
		}
		p.pos++
		if c == ']' {
			return Value{Kind: KindList, List: items}, nil
		}
		if c != ',' {
			return Value{}, p.errf("expected ',' or ']'")
		}
	}
}

func (p *parser) object() (Value, error) {
	p.pos++ // '{'
	var fields []Field
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return Value{Kind: KindMap, Map: fields}, nil
	}
	for {
		key, err := p.quoted()
		if err != nil {
			return Value{}, err
		}
		if n := len(fields); n > 0 && !(fields[n-1].Key < key) {
			return Value{}, p.errf("map keys not sorted (%q before %q)", fields[n-1].Key, key)
		}
		c, ok := p.peek()
		if !ok || c != ':' {
			return Value{}, p.errf("expected ':' after key")
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, Field{Key: key, Value: v})
		c, ok = p.peek()
		if !ok {
			return Value{}, p.errf("unterminated map")
		}
		p.pos++
		if c == '}' {
			return Value{Kind: KindMap, Map: fields}, nil
		}
		if c != ',' {
			return Value{}, p.errf("expected ',' or '}'")
		}
	}
}

func (p *parser) quoted() (string, error) {
	c, ok := p.peek()
	if !ok || c != '"' {
		return "", p.errf("expected string")
	}
	p.pos++
	var sb strings.Builder
	for {
		if p.pos >= len(p.in) {
			return "", p.errf("unterminated string")
		}
		c := p.in[p.pos]
		p.pos++
		switch {
		case c == '"':
			return sb.String(), nil
		case c == '\\':
			if p.pos >= len(p.in) {
				return "", p.errf("unterminated escape")
			}
			e := p.in[p.pos]
			p.pos++
			switch e {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				if p.pos+4 > len(p.in) {
					return "", p.errf("short \\u escape")
				}
				var n int
				for i := 0; i < 4; i++ {
					d := hexVal(p.in[p.pos+i])
					if d < 0 {
						return "", p.errf("invalid \\u escape")
					}
					n = n<<4 | d
				}
				p.pos += 4
				if n >= 0x20 || n == '\n' || n == '\r' || n == '\t' {
					// Encode only uses \u for control characters without a
					// short escape form.
					return "", p.errf("non-canonical \\u escape")
				}
				sb.WriteByte(byte(n))
			default:
				return "", p.errf("invalid escape %q", e)
			}
		case c < 0x20:
			return "", p.errf("raw control character in string")
		default:
			sb.WriteByte(c)
		}
	}
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

func (p *parser) number() (Value, error) {
	start := p.pos
	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}
	if !p.digits() {
		return Value{}, p.errf("invalid number")
	}
	if c, ok := p.peek(); ok && c == '.' {
		p.pos++
		if !p.digits() {
			return Value{}, p.errf("invalid fraction")
		}
	}
	if c, ok := p.peek(); ok && (c == 'e' || c == 'E') {
		p.pos++
		if c, ok := p.peek(); ok && (c == '+' || c == '-') {
			p.pos++
		}
		if !p.digits() {
			return Value{}, p.errf("invalid exponent")
		}
	}
	return NumberValue(p.in[start:p.pos]), nil
}

func (p *parser) digits() bool {
	n := 0
	for {
		c, ok := p.peek()
		if !ok || c < '0' || c > '9' {
			return n > 0
		}
		p.pos++
		n++
	}
}

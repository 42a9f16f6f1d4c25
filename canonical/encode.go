package canonical

// Encode serializes a canonical Value with fixed separators: no whitespace,
// "," between siblings, ":" between key and value, double-quoted keys and
// string values. The writer is hand-built rather than delegating to a generic
// serializer; generic serializers do not guarantee byte-identical output
// across implementations and versions, and identity derivation depends on it.
func Encode(v Value) []byte {
	return appendValue(make([]byte, 0, 256), v)
}

// EncodeString is Encode as a string.
func EncodeString(v Value) string {
	return string(Encode(v))
}

func appendValue(b []byte, v Value) []byte {
	switch v.Kind {
	case KindNull:
		return append(b, "null"...)
	case KindBool:
		if v.Bool {
			return append(b, "true"...)
		}
		return append(b, "false"...)
	case KindString:
		return appendQuoted(b, v.Text)
	case KindNumber:
		if v.Text == "" {
			return append(b, '0')
		}
		return append(b, v.Text...)
	case KindList:
		b = append(b, '[')
		for i, e := range v.List {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendValue(b, e)
		}
		return append(b, ']')
	case KindMap:
		b = append(b, '{')
		for i, f := range v.Map {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendQuoted(b, f.Key)
			b = append(b, ':')
			b = appendValue(b, f.Value)
		}
		return append(b, '}')
	}
	return append(b, "null"...)
}

const hexDigits = "0123456789abcdef"

// appendQuoted escapes quote, backslash, and control characters. Everything
// else, including non-ASCII, is emitted verbatim as UTF-8 so the encoding has
// exactly one spelling per string.
func appendQuoted(b []byte, s string) []byte {
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b = append(b, '\\', '"')
		case c == '\\':
			b = append(b, '\\', '\\')
		case c == '\n':
			b = append(b, '\\', 'n')
		case c == '\r':
			b = append(b, '\\', 'r')
		case c == '\t':
			b = append(b, '\\', 't')
		case c < 0x20:
			b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			b = append(b, c)
		}
	}
	return append(b, '"')
}

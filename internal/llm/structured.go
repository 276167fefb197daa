package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded value. A non-nil error rejects the whole output.
type Validator[T any] func(T) error

// Decode parses a structured response into T. Providers with schema
// support return bare JSON, but local models still wrap it in prose or code
// fences, so the first balanced object is located and cleaned first.
func Decode[T any](raw string, validate Validator[T]) (T, error) {
	var out T

	block := firstObject(raw)
	if block == "" {
		return out, fmt.Errorf("%w: no JSON object in response", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(sanitize(block)), &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(out); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// firstObject returns the first balanced {...} block in s, or "".
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	sc := scanner{}
	for i := start; i < len(s); i++ {
		if sc.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// sanitize drops // and /* */ comments outside strings and rewrites
// numbers like .5 or -.5 to 0.5 and -0.5.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	sc := scanner{}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.step(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(s[:i]) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// scanner tracks whether the current byte is inside a JSON string.
type scanner struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to a string literal.
func (sc *scanner) step(c byte) bool {
	switch {
	case sc.escaped:
		sc.escaped = false
		return true
	case sc.inString && c == '\\':
		sc.escaped = true
		return true
	case c == '"':
		sc.inString = !sc.inString
		return true
	default:
		return sc.inString
	}
}

// startsNumber reports whether the text before a '.' leaves it at the
// start of a number.
func startsNumber(prefix string) bool {
	prefix = strings.TrimRight(prefix, " \t\r\n")
	if prefix == "" {
		return true
	}
	switch prefix[len(prefix)-1] {
	case ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

package report

import (
	"fmt"
	"strings"
)

// substitute replaces every {field} in text with its value. Doubled braces
// render as literal braces. Substituted values are not rescanned.
func substitute(text string, fields map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := text[i+1 : i+1+end]
			if strings.ContainsRune(name, '{') {
				return "", fmt.Errorf("%w: nested '{' at offset %d", ErrMalformedTemplate, i)
			}
			value, ok := fields[name]
			if !ok {
				return "", &MissingFieldError{Field: name}
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

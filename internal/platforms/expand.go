package platforms

import (
	"fmt"
	"strings"
)

// ExpandEnv replaces $NAME and ${NAME} with values from lookup. Unlike
// os.Expand, a variable that is not set or an unclosed ${ is an error.
// A $ not followed by a name or { is kept as is.
func ExpandEnv(input string, lookup func(string) (string, bool)) (string, error) {
	var b strings.Builder
	for i := 0; i < len(input); {
		if input[i] != '$' {
			b.WriteByte(input[i])
			i++
			continue
		}

		if i+1 < len(input) && input[i+1] == '{' {
			end := strings.IndexByte(input[i+2:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed env var in config value: %s", input)
			}
			key := input[i+2 : i+2+end]
			value, ok := lookup(key)
			if !ok {
				return "", fmt.Errorf("missing env var: %s", key)
			}
			b.WriteString(value)
			i += end + 3
			continue
		}

		end := i + 1
		for end < len(input) && isNameByte(input[end]) {
			end++
		}
		if end == i+1 {
			b.WriteByte('$')
			i++
			continue
		}
		key := input[i+1 : end]
		value, ok := lookup(key)
		if !ok {
			return "", fmt.Errorf("missing env var: %s", key)
		}
		b.WriteString(value)
		i = end
	}
	return b.String(), nil
}

func isNameByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

package extractor

import "strings"

// FindObjects returns up to max top-level brace-balanced regions of text, in
// order. Braces inside double-quoted strings are ignored once a region is open.
// An unterminated region ends the scan. max <= 0 means no limit.
func FindObjects(text string, max int) []string {
	var found []string

	for pos := 0; pos < len(text); {
		start := strings.IndexByte(text[pos:], '{')
		if start < 0 {
			break
		}
		start += pos

		end := matchBrace(text, start)
		if end < 0 {
			break
		}

		found = append(found, text[start:end+1])
		if max > 0 && len(found) >= max {
			break
		}
		pos = end + 1
	}

	return found
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

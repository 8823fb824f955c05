package syntax

import "strings"

// StripBracketed removes every balanced open...close segment from s,
// including nested ones.
func StripBracketed(s string, open, close byte) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
			continue
		case close:
			if depth > 0 {
				depth--
				continue
			}
		}
		if depth == 0 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// CompactSpace joins all whitespace runs into single spaces and trims the
// result.
func CompactSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName reduces a call text or symbol to a bare dotted name by
// dropping argument lists, generic brackets and whitespace:
//
//	"Logger.For<T>().Write(x)"  -> "Logger.For.Write"
//	"App.Store.Save(string)"    -> "App.Store.Save"
func NormalizeName(s string) string {
	s = StripBracketed(s, '(', ')')
	s = StripBracketed(s, '<', '>')
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, "?.", ".")
	return strings.Trim(s, ".;")
}

// ShortName keeps the last two segments of a normalised name, the
// declaring type and the member, or returns fallback for an empty name.
func ShortName(s, fallback string) string {
	s = NormalizeName(s)
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, ".")
}

// CleanComment strips comment markers and bracketed fragments from a
// comment and compacts its whitespace.
func CleanComment(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "///"):
		s = s[3:]
	case strings.HasPrefix(s, "//"):
		s = s[2:]
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSuffix(s[2:], "*/")
	}
	s = StripBracketed(s, '<', '>')
	s = StripBracketed(s, '{', '}')
	s = StripBracketed(s, '(', ')')
	return CompactSpace(strings.ReplaceAll(s, "*", " "))
}

package scipindex

import (
	"fmt"
	"strings"
)

// Identifier is a parsed SCIP symbol.
// SCIP format: <scheme> <manager> <package> <version> <descriptor>
// Example: scip-dotnet nuget System.IO 8.0.0 System/IO/File#ReadAllText().
type Identifier struct {
	Scheme     string
	Manager    string
	Package    string
	Descriptor string
	Raw        string
}

// ParseIdentifier parses a SCIP symbol. Document-local symbols ("local 3")
// are rejected since they never name a method.
func ParseIdentifier(id string) (*Identifier, error) {
	if id == "" {
		return nil, fmt.Errorf("empty SCIP identifier")
	}
	if strings.HasPrefix(id, "local ") {
		return nil, fmt.Errorf("local SCIP symbol: %s", id)
	}

	// The descriptor can contain spaces, so only the header is split.
	parts := strings.SplitN(id, " ", 5)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid SCIP identifier format: %s", id)
	}

	result := &Identifier{
		Scheme:  parts[0],
		Manager: parts[1],
		Package: parts[2],
		Raw:     id,
	}
	if len(parts) == 4 {
		result.Descriptor = parts[3]
	} else {
		result.Descriptor = parts[4]
	}
	return result, nil
}

// DisplayName converts a SCIP symbol to the dotted name a C# developer would
// write, dropping type parameters, method disambiguators and parameters:
//
//	scip-dotnet nuget . . App/Store#Save(+1).  ->  App.Store.Save
//
// It returns "" for symbols it cannot parse.
func DisplayName(symbol string) string {
	id, err := ParseIdentifier(symbol)
	if err != nil {
		return ""
	}

	var parts []string
	d := id.Descriptor
	for d != "" {
		name, rest := readName(d)
		if rest == "" {
			if name != "" {
				parts = append(parts, name)
			}
			break
		}
		switch rest[0] {
		case '/', '#', '.', ':', '!':
			if name != "" {
				parts = append(parts, name)
			}
			d = rest[1:]
		case '(':
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return strings.Join(parts, ".")
			}
			if name != "" {
				parts = append(parts, name)
			}
			d = strings.TrimPrefix(rest[end+1:], ".")
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return strings.Join(parts, ".")
			}
			d = rest[end+1:]
		default:
			return strings.Join(parts, ".")
		}
	}
	return strings.Join(parts, ".")
}

// readName reads a simple or backtick-escaped name from the start of d.
func readName(d string) (name, rest string) {
	if strings.HasPrefix(d, "`") {
		var b strings.Builder
		for i := 1; i < len(d); i++ {
			if d[i] == '`' {
				if i+1 < len(d) && d[i+1] == '`' {
					b.WriteByte('`')
					i++
					continue
				}
				return b.String(), d[i+1:]
			}
			b.WriteByte(d[i])
		}
		return b.String(), ""
	}
	i := 0
	for i < len(d) && isNameChar(d[i]) {
		i++
	}
	return d[:i], d[i:]
}

func isNameChar(c byte) bool {
	return c == '_' || c == '+' || c == '-' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c >= 0x80
}

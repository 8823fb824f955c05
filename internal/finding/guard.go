package finding

// GuardKind is the construct that inspects a guarded call's outcome.
type GuardKind uint8

const (
	GuardNone GuardKind = iota
	GuardIf
	GuardWhile
	GuardTernary
	GuardAssert
	// GuardComparison is a statement holding an ==/!= comparison of the
	// call's result outside any if or while.
	GuardComparison
)

func (g GuardKind) String() string {
	switch g {
	case GuardIf:
		return "if"
	case GuardWhile:
		return "while"
	case GuardTernary:
		return "ternary"
	case GuardAssert:
		return "assert"
	case GuardComparison:
		return "comparison"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (g GuardKind) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

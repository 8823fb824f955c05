//go:build !cgo

package frontend

import (
	"context"
	"errors"

	"catchminer/internal/syntax"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("parsing requires CGO (tree-sitter)")

// Available reports whether parsing is supported in this build.
func Available() bool { return false }

// Parser is a stub for non-CGO builds.
type Parser struct{}

// NewParser creates a stub parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse always returns ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*syntax.File, error) {
	return nil, ErrNoCGO
}

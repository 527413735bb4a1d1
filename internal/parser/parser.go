package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Parser wraps tree-sitter parser for JavaScript/TypeScript
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	isTS     bool
}

// NewParser creates a new JavaScript parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := javascript.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     false,
	}
}

// NewTypeScriptParser creates a new TypeScript parser
func NewTypeScriptParser() *Parser {
	parser := sitter.NewParser()
	lang := tsx.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
		isTS:     true,
	}
}

// NewParserForFile selects the JavaScript or TypeScript grammar from the file extension
func NewParserForFile(filename string) *Parser {
	if IsTypeScriptFile(filename) {
		return NewTypeScriptParser()
	}
	return NewParser()
}

// Parse parses source into a syntax tree. The caller must close the tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse source: no tree produced")
	}
	return tree, nil
}

// IsTypeScript returns true if this parser is configured for TypeScript
func (p *Parser) IsTypeScript() bool {
	return p.isTS
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

var (
	javaScriptExtensions = map[string]bool{".js": true, ".jsx": true, ".mjs": true, ".cjs": true}
	typeScriptExtensions = map[string]bool{".ts": true, ".tsx": true, ".mts": true, ".cts": true}
)

// IsTypeScriptFile reports whether filename has a TypeScript extension
func IsTypeScriptFile(filename string) bool {
	return typeScriptExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsSupportedFile reports whether a grammar exists for filename's extension
func IsSupportedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return javaScriptExtensions[ext] || typeScriptExtensions[ext]
}

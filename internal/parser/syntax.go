package parser

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// IssueKind classifies a syntax issue
type IssueKind string

const (
	IssueSyntaxError  IssueKind = "syntax-error"
	IssueMissingToken IssueKind = "missing-token"
	IssueDebugger     IssueKind = "no-debugger"
	IssueVar          IssueKind = "no-var"
)

// SyntaxIssue is one problem found in the concrete syntax tree
type SyntaxIssue struct {
	Kind    IssueKind
	Message string
	Line    int // 1-based
	Column  int // 1-based
}

// Check parses source and returns its issues in document order
func (p *Parser) Check(ctx context.Context, source []byte) ([]SyntaxIssue, error) {
	tree, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return collectIssues(ctx, tree.RootNode(), source)
}

// collectIssues walks the tree depth-first without recursion.
// ERROR subtrees are reported once and not descended into.
func collectIssues(ctx context.Context, root *sitter.Node, source []byte) ([]SyntaxIssue, error) {
	var issues []SyntaxIssue
	if root == nil {
		return issues, nil
	}

	stack := []*sitter.Node{root}
	visited := 0
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return issues, err
			}
		}

		if issue, ok := classify(node, source); ok {
			issues = append(issues, issue)
			if issue.Kind == IssueSyntaxError {
				continue
			}
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			if child := node.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}

	return issues, nil
}

func classify(node *sitter.Node, source []byte) (SyntaxIssue, bool) {
	point := node.StartPoint()
	issue := SyntaxIssue{
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}

	switch {
	case node.IsMissing():
		issue.Kind = IssueMissingToken
		issue.Message = fmt.Sprintf("Parsing error: missing '%s'", node.Type())
	case node.Type() == "ERROR":
		issue.Kind = IssueSyntaxError
		issue.Message = fmt.Sprintf("Parsing error: unexpected token %s", snippet(node.Content(source)))
	case node.Type() == "debugger_statement":
		issue.Kind = IssueDebugger
		issue.Message = "Unexpected 'debugger' statement."
	case node.Type() == "variable_declaration":
		issue.Kind = IssueVar
		issue.Message = "Unexpected var, use let or const instead."
	default:
		return issue, false
	}
	return issue, true
}

// snippetRunes is the longest quoted span before it is cut
const snippetRunes = 20

// snippet quotes the first line of an error span, shortened for messages
func snippet(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > snippetRunes {
		content = string([]rune(content)[:snippetRunes]) + "..."
	}
	if content == "" {
		return "at end of input"
	}
	return "'" + content + "'"
}

package domain

import "strconv"

// Metrics holds the structural counts computed over one document
type Metrics struct {
	// Functions is the number of function declarations
	Functions int `json:"functions" yaml:"functions"`

	// Complexity is the number of control keywords in the text
	Complexity int `json:"complexity" yaml:"complexity"`

	// AvgFunctionLength is the rounded mean body line count
	AvgFunctionLength int `json:"avg_function_length" yaml:"avg_function_length"`

	// MaxNesting is the deepest brace nesting observed
	MaxNesting int `json:"max_nesting" yaml:"max_nesting"`

	// DuplicationPercent is the share of repeated lines, rounded to one decimal
	DuplicationPercent float64 `json:"duplication_percent" yaml:"duplication_percent"`
}

// FormatDuplication renders the duplication share as "12.5%"
func (m Metrics) FormatDuplication() string {
	return strconv.FormatFloat(m.DuplicationPercent, 'f', 1, 64) + "%"
}

package analyzer

import (
	"fmt"
	"regexp"

	"github.com/ludo-technologies/smellscan/domain"
)

// DefaultDocProximity is how many bytes may separate a doc block's end from its function
const DefaultDocProximity = 100

var (
	singleLineCommentPattern = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern      = regexp.MustCompile(`(?s)/\*.*?\*/`)
	docCommentPattern        = regexp.MustCompile(`(?s)/\*\*.*?\*/`)
	todoMarkerPattern        = regexp.MustCompile(`TODO|FIXME|XXX|HACK`)
	qualityMarkerPattern     = regexp.MustCompile(`//\s*(?:TODO|FIXME|XXX|HACK|NOTE|BUG)`)
)

const msgImproveComment = "Consider improving this comment with more details"

// CommentAnalyzer classifies comments and measures documentation coverage
type CommentAnalyzer struct {
	docProximity int
}

// NewCommentAnalyzer creates an analyzer that accepts doc blocks ending within docProximity bytes of a function
func NewCommentAnalyzer(docProximity int) *CommentAnalyzer {
	if docProximity < 1 {
		docProximity = DefaultDocProximity
	}
	return &CommentAnalyzer{docProximity: docProximity}
}

// Analyze builds the comment report. Suggestions list every undocumented
// function first and then every marker comment, each group in text order.
func (a *CommentAnalyzer) Analyze(doc *domain.SourceDocument) domain.CommentReport {
	text := doc.Text
	docBlocks := docCommentPattern.FindAllStringIndex(text, -1)

	report := domain.CommentReport{
		Total:         len(singleLineCommentPattern.FindAllStringIndex(text, -1)) + len(blockCommentPattern.FindAllStringIndex(text, -1)),
		Documentation: len(docBlocks),
		Todos:         len(todoMarkerPattern.FindAllStringIndex(text, -1)),
		Suggestions:   []domain.CommentSuggestion{},
	}

	for _, loc := range functionHeaderPattern.FindAllStringSubmatchIndex(text, -1) {
		start := loc[0]
		if a.isDocumented(docBlocks, start) {
			report.Quality.Good++
			continue
		}

		report.Quality.Missing++
		report.Suggestions = append(report.Suggestions, domain.CommentSuggestion{
			Type:    domain.FindingMissingDoc,
			Message: fmt.Sprintf("Function '%s' is missing documentation", group(text, loc, 1)),
			Line:    doc.LineAt(start),
		})
	}

	for _, loc := range qualityMarkerPattern.FindAllStringIndex(text, -1) {
		report.Quality.NeedsImprovement++
		report.Suggestions = append(report.Suggestions, domain.CommentSuggestion{
			Type:    domain.FindingImproveComment,
			Message: msgImproveComment,
			Line:    doc.LineAt(loc[0]),
		})
	}

	return report
}

// isDocumented reports whether a doc block ends strictly before fnStart and
// less than docProximity bytes ahead of it
func (a *CommentAnalyzer) isDocumented(docBlocks [][]int, fnStart int) bool {
	for _, block := range docBlocks {
		end := block[1]
		if end < fnStart && end > fnStart-a.docProximity {
			return true
		}
	}
	return false
}

package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ludo-technologies/smellscan/domain"
)

// Small function for benchmarking
var smallCode = `
function simple(x) {
    if (x > 0) {
        return x * 2;
    }
    return x;
}
`

// Medium-sized component for benchmarking
var mediumCode = `
/**
 * Renders a filtered list.
 */
const ItemList = (items, filter) => {
    const visible = items.filter(filter);
    const data = fetchItems(visible);
    for (let i = 0; i < visible.length; i++) { for (let j = 0; j < i; j++) { compare(i, j); } }
    return <ul style={{ margin: 0 }}><li><span><b>{visible.length}</b></span></li></ul>;
}
`

// largeCode repeats the medium component until it is several thousand lines long
var largeCode = buildLargeCode(500)

func buildLargeCode(copies int) string {
	var sb strings.Builder
	for i := 0; i < copies; i++ {
		sb.WriteString(strings.ReplaceAll(mediumCode, "ItemList", fmt.Sprintf("ItemList%d", i)))
	}
	return sb.String()
}

func benchmarkScan(b *testing.B, code string) {
	doc := domain.NewSourceDocumentFromString("bench.jsx", code)
	scanner := NewDefaultPatternScanner()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := scanner.Scan(ctx, doc)
		if result.Partial() {
			b.Fatal("unbounded scan returned partial result")
		}
	}
}

func BenchmarkPatternScanner_Small(b *testing.B)  { benchmarkScan(b, smallCode) }
func BenchmarkPatternScanner_Medium(b *testing.B) { benchmarkScan(b, mediumCode) }
func BenchmarkPatternScanner_Large(b *testing.B)  { benchmarkScan(b, largeCode) }

func BenchmarkRepeatedCode_Large(b *testing.B) {
	doc := domain.NewSourceDocumentFromString("bench.jsx", largeCode)
	detector := NewRepeatedCodeDetector(DefaultRuleThresholds().MinRepeatedChars)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := detector.Detect(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMetricsCalculator_Large(b *testing.B) {
	doc := domain.NewSourceDocumentFromString("bench.jsx", largeCode)
	calc := NewMetricsCalculator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Calculate(doc)
	}
}

func BenchmarkCommentAnalyzer_Large(b *testing.B) {
	doc := domain.NewSourceDocumentFromString("bench.jsx", largeCode)
	comments := NewCommentAnalyzer(DefaultDocProximity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		comments.Analyze(doc)
	}
}

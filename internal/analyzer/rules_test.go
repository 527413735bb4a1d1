package analyzer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/smellscan/domain"
)

func newDoc(text string) *domain.SourceDocument {
	return domain.NewSourceDocumentFromString("test.jsx", text)
}

func detect(t *testing.T, d Detector, text string) []domain.Finding {
	t.Helper()
	findings, err := d.Detect(context.Background(), newDoc(text))
	require.NoError(t, err)
	return findings
}

// functionWithBody builds a declaration whose body spans exactly lines lines
func functionWithBody(name string, lines int) string {
	return "function " + name + "() {" + strings.Repeat("\n  x++;", lines-2) + "\n}"
}

func TestFunctionLengthDetector(t *testing.T) {
	d := NewFunctionLengthDetector(20)

	t.Run("21 line body", func(t *testing.T) {
		findings := detect(t, d, functionWithBody("big", 21))
		require.Len(t, findings, 1)
		assert.Equal(t, domain.FindingFunctionLength, findings[0].Type)
		assert.Equal(t, domain.SeverityWarning, findings[0].Severity)
		assert.Equal(t, 1, findings[0].Line)
		assert.Contains(t, findings[0].Message, "Function is 21 lines long")
	})

	t.Run("20 line body", func(t *testing.T) {
		assert.Empty(t, detect(t, d, functionWithBody("ok", 20)))
	})

	t.Run("line of declaration", func(t *testing.T) {
		findings := detect(t, d, "const a = 1;\n\n"+functionWithBody("big", 30))
		require.Len(t, findings, 1)
		assert.Equal(t, 3, findings[0].Line)
	})
}

func TestComplexConditionDetector(t *testing.T) {
	d := NewComplexConditionDetector(100)

	long := "if (" + strings.Repeat("a && ", 25) + "b) { run(); }"
	findings := detect(t, d, long)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.FindingComplexCondition, findings[0].Type)

	assert.Empty(t, detect(t, d, "if (a && b) { run(); }"))
}

func TestNestedLoopDetector(t *testing.T) {
	d := NewNestedLoopDetector()

	nested := "for (let i = 0; i < n; i++) {\n  for (let j = 0; j < n; j++) {\n  }\n}"
	findings := detect(t, d, nested)
	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].Line)

	assert.Empty(t, detect(t, d, "for (let i = 0; i < n; i++) {\n  total += i;\n}"))
}

func TestParameterCountDetector(t *testing.T) {
	d := NewParameterCountDetector(4)

	tests := []struct {
		name string
		code string
		want int
	}{
		{"five parameters", "function f(a, b, c, d, e) {}", 1},
		{"four parameters", "function f(a, b, c, d) {}", 0},
		{"blank entries ignored", "function f(a, , b, c, d,) {}", 0},
		{"no parameters", "function f() {}", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := detect(t, d, tt.code)
			assert.Len(t, findings, tt.want)
			if tt.want == 1 {
				assert.Equal(t, "Function has 5 parameters. Consider passing an object or refactoring.", findings[0].Message)
			}
		})
	}
}

func TestUnhandledPromiseDetector(t *testing.T) {
	d := NewUnhandledPromiseDetector()

	tests := []struct {
		name string
		code string
		want int
	}{
		{"bare call assignment", "const data = fetchData(url);", 1},
		{"awaited", "const data = await fetchData(url);", 0},
		{"then chained", "const p = fetchData(url).then(parse);", 0},
		{"catch chained", "const p = fetchData(url).catch(fail);", 0},
		{"plain value", "const x = y;", 0},
		{"not an assignment", "fetchData(url);", 0},
		{"synchronous call still flagged", "const n = Math.max(a, b);", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, detect(t, d, tt.code), tt.want)
		})
	}
}

func TestLargeFileDetector(t *testing.T) {
	d := NewLargeFileDetector(300)

	findings := detect(t, d, strings.Repeat("x\n", 300))
	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].Line)
	assert.Equal(t, "File is 301 lines long. Consider splitting into multiple modules.", findings[0].Message)

	assert.Empty(t, detect(t, d, strings.Repeat("x\n", 299)+"x"))
}

func TestLargeComponentDetector(t *testing.T) {
	d := NewLargeComponentDetector(100)

	big := "const App = () => {" + strings.Repeat("\n  render();", 100) + "\n}"
	findings := detect(t, d, big)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.FindingLargeComponent, findings[0].Type)
	assert.Contains(t, findings[0].Message, "Component is 102 lines long")

	small := "const App = function(props) {\n  return null;\n}"
	assert.Empty(t, detect(t, d, small))
}

func TestDeepNestingDetector(t *testing.T) {
	d := NewDeepNestingDetector(4)

	findings := detect(t, d, "<div><ul><li><span>x</span></li></ul></div>")
	assert.Len(t, findings, 2)

	assert.Empty(t, detect(t, d, "<div>x</div>"))
	assert.Empty(t, detect(t, d, "if (a < b && c > d) {}"))
}

func TestInlineStyleDetector(t *testing.T) {
	d := NewInlineStyleDetector()

	findings := detect(t, d, `<div style={{ color: "red" }}>hi</div>`)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.SeverityInfo, findings[0].Severity)

	assert.Empty(t, detect(t, d, `<div className="red">hi</div>`))
}

func TestRepeatedCodeDetector(t *testing.T) {
	d := NewRepeatedCodeDetector(50)
	span := "const value = computeSomething(alpha, beta, gamma);"
	require.GreaterOrEqual(t, len(span), 50)

	t.Run("adjacent copy", func(t *testing.T) {
		findings := detect(t, d, "{}\n\n"+span+span+"\n")
		require.Len(t, findings, 1)
		assert.Equal(t, 3, findings[0].Line)
		assert.Equal(t, domain.FindingRepeatedCode, findings[0].Type)
	})

	t.Run("separated copy is not detected", func(t *testing.T) {
		assert.Empty(t, detect(t, d, span+"\nlet other = 1;\n"+span))
	})

	t.Run("brace breaks the run", func(t *testing.T) {
		assert.Empty(t, detect(t, d, span+"{"+span))
	})

	t.Run("short repeats", func(t *testing.T) {
		assert.Empty(t, detect(t, d, strings.Repeat("ab", 24)))
	})

	t.Run("scan resumes after the copy", func(t *testing.T) {
		other := "let second = anotherComputation(delta, epsilon, zeta);"
		findings := detect(t, d, span+span+"{"+other+other)
		assert.Len(t, findings, 2)
	})

	t.Run("multibyte text", func(t *testing.T) {
		wide := strings.Repeat("é", 30) + strings.Repeat("ü", 30)
		findings := detect(t, d, "\n"+wide+wide)
		require.Len(t, findings, 1)
	})
}

func TestRepeatedCodeDetector_Deadline(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "v%d;", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRepeatedCodeDetector(50).Detect(ctx, newDoc(b.String()))
	assert.ErrorIs(t, err, context.Canceled)
}

// naiveSquares tries every half length at every position, longest first
func naiveSquares(text string, minChars int) []int {
	runes := []rune(text)
	var starts []int
	for i := 0; i+2*minChars <= len(runes); {
		found := 0
		for L := (len(runes) - i) / 2; L >= minChars; L-- {
			if string(runes[i:i+L]) == string(runes[i+L:i+2*L]) {
				found = L
				break
			}
		}
		if found > 0 {
			starts = append(starts, i)
			i += 2 * found
		} else {
			i++
		}
	}
	return starts
}

func TestRepeatedCodeDetector_MatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabets := []string{"ab", "abc", "aab\n"}

	for round := 0; round < 300; round++ {
		alphabet := alphabets[round%len(alphabets)]
		minChars := 1 + rng.IntN(6)
		var b strings.Builder
		for i := rng.IntN(120); i >= 0; i-- {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		text := b.String()

		offsets, err := NewRepeatedCodeDetector(minChars).scanRun(context.Background(), text)
		require.NoError(t, err)

		want := naiveSquares(text, minChars)
		if len(want) == 0 {
			assert.Empty(t, offsets, "text %q min %d", text, minChars)
			continue
		}
		assert.Equal(t, want, offsets, "text %q min %d", text, minChars)
	}
}

func TestRepeatedCodeDetector_PeriodicRun(t *testing.T) {
	d := NewRepeatedCodeDetector(50)

	offsets, err := d.scanRun(context.Background(), strings.Repeat("a", 1001))
	require.NoError(t, err)
	// the first square takes 1000 characters and leaves one behind
	assert.Equal(t, []int{0}, offsets)

	offsets, err = d.scanRun(context.Background(), strings.Repeat("ab", 50)+strings.Repeat("xy", 50))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 100}, offsets)
}

func TestRepeatedCodeDetector_LongRunWithinBudget(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	var b strings.Builder
	for i := 0; i < 300000; i++ {
		b.WriteByte(byte('a' + rng.IntN(26)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findings, err := NewRepeatedCodeDetector(50).Detect(ctx, newDoc(b.String()))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRegexDetector_Deadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	findings, err := NewInlineStyleDetector().Detect(ctx, newDoc(`style={a}`))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, findings)
}

func TestNewDetectors_Order(t *testing.T) {
	detectors := NewDetectors(DefaultRuleThresholds())

	want := []domain.FindingType{
		domain.FindingFunctionLength,
		domain.FindingComplexCondition,
		domain.FindingNestedLoops,
		domain.FindingRepeatedCode,
		domain.FindingTooManyParameters,
		domain.FindingUnhandledPromise,
		domain.FindingLargeFile,
		domain.FindingLargeComponent,
		domain.FindingDeepNesting,
		domain.FindingInlineStyles,
	}

	require.Len(t, detectors, len(want))
	for i, d := range detectors {
		assert.Equal(t, want[i], d.Type())
	}
}

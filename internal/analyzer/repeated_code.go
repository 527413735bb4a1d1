package analyzer

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

const (
	// hashModulus is the Mersenne prime 2^61-1
	hashModulus = 1<<61 - 1
	hashBase    = 1000003

	// checkEvery is how many scan steps run between deadline checks
	checkEvery = 4096
)

// RepeatedCodeDetector finds a span of non-brace characters immediately
// followed by an identical copy of itself. At each position the longest such
// span wins and scanning resumes after the copy, which reproduces the leftmost
// greedy matching of a backreference pattern without backtracking.
//
// For every half length L the run is sampled at multiples of L. Any square of
// half L contains exactly one sample q in its first half, so the squares around
// q follow from the common extensions of q and q+L in both directions. That is
// O(n/L) samples per L and O(n log n) samples for the whole run.
type RepeatedCodeDetector struct {
	minChars int
}

// NewRepeatedCodeDetector flags adjacent duplicated spans of at least minChars characters
func NewRepeatedCodeDetector(minChars int) *RepeatedCodeDetector {
	if minChars < 1 {
		minChars = 1
	}
	return &RepeatedCodeDetector{minChars: minChars}
}

// Type returns the finding type
func (d *RepeatedCodeDetector) Type() domain.FindingType {
	return domain.FindingRepeatedCode
}

// costly places this rule after the cheaper ones in a scan
func (d *RepeatedCodeDetector) costly() {}

// Detect scans each maximal brace-free run of the text independently.
// A duplicated span cannot contain a brace, so it never crosses a run boundary.
func (d *RepeatedCodeDetector) Detect(ctx context.Context, doc *domain.SourceDocument) ([]domain.Finding, error) {
	var findings []domain.Finding
	text := doc.Text

	for start := 0; start < len(text); {
		if text[start] == '{' || text[start] == '}' {
			start++
			continue
		}

		end := len(text)
		if i := strings.IndexAny(text[start:], "{}"); i >= 0 {
			end = start + i
		}

		offsets, err := d.scanRun(ctx, text[start:end])
		for _, off := range offsets {
			findings = append(findings, domain.Finding{
				Type:     domain.FindingRepeatedCode,
				Severity: domain.SeverityWarning,
				Message:  msgRepeatedCode,
				Line:     doc.LineAt(start + off),
			})
		}
		if err != nil {
			return findings, err
		}

		start = end
	}

	return findings, nil
}

// runScan holds the per-run state of one repeated code scan
type runScan struct {
	ctx   context.Context
	runes []rune
	hash  *prefixHash
	work  int

	// longest[i] is the longest half length claimed for a square at i, 0 for none
	longest []int32

	// next points towards the first position >= i whose longest half is not yet known
	next []int32
}

// scanRun returns the byte offsets, within run, where a repeated span starts
func (d *RepeatedCodeDetector) scanRun(ctx context.Context, run string) ([]int, error) {
	if len(run) < 2*d.minChars {
		return nil, nil
	}
	if len(run) >= math.MaxInt32 {
		return nil, fmt.Errorf("brace-free run of %d bytes is too long to scan", len(run))
	}

	runes := make([]rune, 0, len(run))
	byteOffset := make([]int32, 0, len(run)+1)
	for off, r := range run {
		runes = append(runes, r)
		byteOffset = append(byteOffset, int32(off))
	}
	byteOffset = append(byteOffset, int32(len(run)))

	n := len(runes)
	if n < 2*d.minChars {
		return nil, nil
	}

	s := &runScan{
		ctx:     ctx,
		runes:   runes,
		hash:    newPrefixHash(runes),
		longest: make([]int32, n),
		next:    make([]int32, n+1),
	}
	for i := range s.next {
		s.next[i] = int32(i)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.claimSquares(d.minChars); err != nil {
		return nil, err
	}

	var offsets []int
	for i := 0; i+2*d.minChars <= n; {
		L := int(s.longest[i])
		if L > 0 && !equalRunes(runes[i:i+L], runes[i+L:i+2*L]) {
			// hash collision: settle this position by direct comparison
			var err error
			if L, err = s.longestAt(i, d.minChars); err != nil {
				return offsets, err
			}
		}

		if L > 0 {
			offsets = append(offsets, int(byteOffset[i]))
			i += 2 * L
		} else {
			i++
		}
	}

	return offsets, nil
}

// claimSquares records, for every position, the longest half length L >= minChars
// of a square starting there. Half lengths are visited longest first, so each
// position keeps the first length that reaches it. Hash equality may overstate a
// length but never misses a real square.
func (s *runScan) claimSquares(minChars int) error {
	n := len(s.runes)

	for L := n / 2; L >= minChars; L-- {
		for q := 0; q+L < n; q += L {
			if err := s.tick(); err != nil {
				return err
			}

			lo := max(q-L+1, 0)
			hi := min(q, n-2*L)
			if lo > hi || s.find(lo) > hi {
				continue
			}
			if s.runes[q] != s.runes[q+L] {
				continue
			}

			fwd := s.hash.commonPrefix(q, q+L, min(L, n-q-L))
			bwd := s.hash.commonSuffix(q, q+L, min(L-1, q))

			s.claim(max(lo, q-bwd), min(hi, q+fwd-L), int32(L))
		}
	}

	return nil
}

// claim assigns L to every position in [lo, hi] that has no length yet
func (s *runScan) claim(lo, hi int, L int32) {
	for i := s.find(lo); i <= hi; i = s.find(i + 1) {
		s.longest[i] = L
		s.next[i] = int32(i + 1)
	}
}

// find returns the first position >= i without a claimed length, or len(runes)
func (s *runScan) find(i int) int {
	root := i
	for int(s.next[root]) != root {
		root = int(s.next[root])
	}
	for int(s.next[i]) != root {
		up := int(s.next[i])
		s.next[i] = int32(root)
		i = up
	}
	return root
}

// longestAt tries every half length at i directly, longest first
func (s *runScan) longestAt(i, minChars int) (int, error) {
	runes := s.runes
	for L := (len(runes) - i) / 2; L >= minChars; L-- {
		if err := s.tick(); err != nil {
			return 0, err
		}
		if runes[i] != runes[i+L] || s.hash.sum(i, L) != s.hash.sum(i+L, L) {
			continue
		}
		if equalRunes(runes[i:i+L], runes[i+L:i+2*L]) {
			return L, nil
		}
	}
	return 0, nil
}

func (s *runScan) tick() error {
	s.work++
	if s.work%checkEvery == 0 {
		return s.ctx.Err()
	}
	return nil
}

// prefixHash is a polynomial rolling hash over runes modulo 2^61-1
type prefixHash struct {
	prefix []uint64
	pow    []uint64
}

func newPrefixHash(runes []rune) *prefixHash {
	h := &prefixHash{
		prefix: make([]uint64, len(runes)+1),
		pow:    make([]uint64, len(runes)+1),
	}
	h.pow[0] = 1
	for i, r := range runes {
		h.prefix[i+1] = modAdd(mulMod(h.prefix[i], hashBase), uint64(r)+1)
		h.pow[i+1] = mulMod(h.pow[i], hashBase)
	}
	return h
}

// sum returns the hash of runes[i:i+length]
func (h *prefixHash) sum(i, length int) uint64 {
	return modAdd(h.prefix[i+length], hashModulus-mulMod(h.prefix[i], h.pow[length]))
}

// commonPrefix returns how far runes[a:] and runes[b:] agree, up to limit
func (h *prefixHash) commonPrefix(a, b, limit int) int {
	return extent(limit, func(k int) bool { return h.sum(a, k) == h.sum(b, k) })
}

// commonSuffix returns how far runes[:a] and runes[:b] agree backwards, up to limit
func (h *prefixHash) commonSuffix(a, b, limit int) int {
	return extent(limit, func(k int) bool { return h.sum(a-k, k) == h.sum(b-k, k) })
}

// extent returns the largest k <= limit with same(k), given same(0) and that
// same holds for every k up to the true answer. Steps double until same fails,
// then a binary search narrows the last step.
func extent(limit int, same func(k int) bool) int {
	lo, step := 0, 1
	for lo < limit {
		k := min(lo+step, limit)
		if !same(k) {
			hi := k - 1
			for lo < hi {
				mid := lo + (hi-lo+1)/2
				if same(mid) {
					lo = mid
				} else {
					hi = mid - 1
				}
			}
			return lo
		}
		lo = k
		step *= 2
	}
	return lo
}

func mulMod(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	// 2^64 = 8 * 2^61 and 2^61 = 1 under the modulus
	r := (hi<<3 | lo>>61) + lo&hashModulus
	if r >= hashModulus {
		r -= hashModulus
	}
	if r >= hashModulus {
		r -= hashModulus
	}
	return r
}

func modAdd(a, b uint64) uint64 {
	r := a + b
	if r >= hashModulus {
		r -= hashModulus
	}
	return r
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

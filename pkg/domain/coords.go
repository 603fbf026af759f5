package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is an immutable genomic interval with 1-based inclusive bounds.
type Interval struct {
	Chromosome string `json:"chromosome"`
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
}

// Valid reports whether the interval has a chromosome token and ordered bounds.
func (iv Interval) Valid() bool {
	return iv.Chromosome != "" && iv.Start <= iv.End
}

// Contains reports whether other lies entirely within iv. Both bounds are
// inclusive, so an interval flush with the edges is contained.
func (iv Interval) Contains(other Interval) bool {
	return iv.Chromosome == other.Chromosome &&
		iv.Start <= other.Start &&
		other.End <= iv.End
}

// Overlaps reports whether the two intervals share at least one base.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Chromosome == other.Chromosome &&
		iv.Start <= other.End &&
		other.Start <= iv.End
}

// String renders the interval as a chromosome:start-end token. Zero-length
// intervals render as chromosome:position.
func (iv Interval) String() string {
	if iv.Start == iv.End {
		return fmt.Sprintf("%s:%d", iv.Chromosome, iv.Start)
	}
	return fmt.Sprintf("%s:%d-%d", iv.Chromosome, iv.Start, iv.End)
}

// Distance returns the linear distance between two intervals using the gap
// convention: 0 when the intervals overlap or touch, otherwise the number of
// bases separating them. When the chromosomes differ there is no defined
// distance and ok is false; callers must treat any threshold comparison over
// an undefined distance as false rather than as an error.
func Distance(a, b Interval) (bp int64, ok bool) {
	if a.Chromosome != b.Chromosome {
		return 0, false
	}
	gap := max64(a.Start, b.Start) - min64(a.End, b.End)
	if gap < 0 {
		gap = 0
	}
	return gap, true
}

// ParseLocation parses a chromosome:position or chromosome:start-end token such
// as "chr3:190000000" or "chr3:181708858-181711758". A bare position yields a
// zero-length point interval at that coordinate.
func ParseLocation(token string) (Interval, error) {
	chrom, rest, found := strings.Cut(token, ":")
	if !found || chrom == "" || rest == "" {
		return Interval{}, fmt.Errorf("malformed location %q: want chromosome:position", token)
	}
	startTok, endTok, ranged := strings.Cut(rest, "-")
	start, err := strconv.ParseInt(startTok, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("malformed location %q: %w", token, err)
	}
	end := start
	if ranged {
		end, err = strconv.ParseInt(endTok, 10, 64)
		if err != nil {
			return Interval{}, fmt.Errorf("malformed location %q: %w", token, err)
		}
	}
	if start < 1 || end < start {
		return Interval{}, fmt.Errorf("malformed location %q: bounds out of order", token)
	}
	return Interval{Chromosome: chrom, Start: start, End: end}, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

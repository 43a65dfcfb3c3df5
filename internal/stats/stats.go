// Package stats defines the per-worker and global statistics the engine
// accumulates (C6 Local Aggregator) and merges (the merge half of C8).
package stats

// CanonicalGCCOrder fixes the eight Greater Capital City regions' index
// positions used throughout the engine, per spec §3.
var CanonicalGCCOrder = [8]string{
	"1gsyd", "2gmel", "3gbri", "4gade", "5gper", "6ghob", "7gdar", "8acte",
}

var gccIndexByCode = func() map[string]int {
	m := make(map[string]int, len(CanonicalGCCOrder))
	for i, g := range CanonicalGCCOrder {
		m[g] = i
	}
	return m
}()

// IndexOfGCC returns the canonical 0..7 index of a gcc code, or ok=false
// if it isn't one of the eight greater-capital regions.
func IndexOfGCC(gcc string) (int, bool) {
	i, ok := gccIndexByCode[gcc]
	return i, ok
}

// LocalStats is one worker's partial tally: spec §3.
type LocalStats struct {
	GccCounts          [8]int64
	AuthorCounts       map[string]int64
	AuthorRegionCounts map[string]map[string]int64
}

// GlobalStats is the merged total; same shape as LocalStats, named
// distinctly so call sites make clear which one they hold.
type GlobalStats LocalStats

// New returns an empty LocalStats ready for Add.
func New() *LocalStats {
	return &LocalStats{
		AuthorCounts:       make(map[string]int64),
		AuthorRegionCounts: make(map[string]map[string]int64),
	}
}

// Add records one parsed record against the local tally. authorID must
// be non-empty (callers reject records with a missing author before
// calling Add, per spec §4.5's field-missing handling). The author
// counter is incremented unconditionally (spec §4.5's "count all
// records" policy for T1); the region counters are only incremented
// when ok is true.
func (s *LocalStats) Add(authorID string, ok bool, gcc string) {
	s.AuthorCounts[authorID]++
	if !ok {
		return
	}
	idx, valid := IndexOfGCC(gcc)
	if !valid {
		return
	}
	s.GccCounts[idx]++
	perAuthor, exists := s.AuthorRegionCounts[authorID]
	if !exists {
		perAuthor = make(map[string]int64)
		s.AuthorRegionCounts[authorID] = perAuthor
	}
	perAuthor[gcc]++
}

// Merge combines any number of partials into a GlobalStats, per spec
// §4.8. Merge is commutative and associative (spec invariant I3): the
// result does not depend on the order partials are supplied in.
func Merge(partials ...*LocalStats) GlobalStats {
	g := GlobalStats{
		AuthorCounts:       make(map[string]int64),
		AuthorRegionCounts: make(map[string]map[string]int64),
	}
	for _, p := range partials {
		if p == nil {
			continue
		}
		for i, c := range p.GccCounts {
			g.GccCounts[i] += c
		}
		for author, c := range p.AuthorCounts {
			g.AuthorCounts[author] += c
		}
		for author, regions := range p.AuthorRegionCounts {
			dst, ok := g.AuthorRegionCounts[author]
			if !ok {
				dst = make(map[string]int64)
				g.AuthorRegionCounts[author] = dst
			}
			for gcc, c := range regions {
				dst[gcc] += c
			}
		}
	}
	return g
}

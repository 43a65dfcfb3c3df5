// Package rank implements the ranking half of the Merger & Ranker (C8):
// turning a merged stats.GlobalStats into the three reports spec.md
// names T1, T2, and T3.
package rank

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/LOOP115/social-media-analytics/internal/stats"
)

// topN is the row count of T1 and T3, per spec §4.8.
const topN = 10

// AuthorCount is one T1 row.
type AuthorCount struct {
	AuthorID string
	Count    int64
}

// RegionCount is one T2 row, or one region entry inside a T3 row.
type RegionCount struct {
	GCC   string
	Label string
	Count int64
}

// DiversityEntry is one T3 row: an author ranked by how many distinct
// Greater Capital Cities they posted from.
type DiversityEntry struct {
	AuthorID string
	Regions  []RegionCount // canonical gcc order, zero counts omitted
	Total    int64
}

// Report bundles the three rankings.
type Report struct {
	T1 []AuthorCount
	T2 [8]RegionCount
	T3 []DiversityEntry
}

// gccCityName names the city behind each canonical gcc code, for T2's
// "<gcc> (Greater <City>)" label contract (spec §6).
var gccCityName = map[string]string{
	"1gsyd": "Sydney",
	"2gmel": "Melbourne",
	"3gbri": "Brisbane",
	"4gade": "Adelaide",
	"5gper": "Perth",
	"6ghob": "Hobart",
	"7gdar": "Darwin",
	"8acte": "Canberra",
}

// Compute builds T1, T2, and T3 from g. Ties are broken deterministically
// (spec §4.8) so the result does not depend on merge order (spec
// invariant I3 carried through to ranking).
func Compute(g stats.GlobalStats) Report {
	return Report{
		T1: computeT1(g),
		T2: computeT2(g),
		T3: computeT3(g),
	}
}

func computeT1(g stats.GlobalStats) []AuthorCount {
	authors := maps.Keys(g.AuthorCounts)
	all := make([]AuthorCount, 0, len(authors))
	for _, author := range authors {
		all = append(all, AuthorCount{AuthorID: author, Count: g.AuthorCounts[author]})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].AuthorID < all[j].AuthorID
	})
	if len(all) > topN {
		all = all[:topN]
	}
	return all
}

func computeT2(g stats.GlobalStats) [8]RegionCount {
	var out [8]RegionCount
	for i, gcc := range stats.CanonicalGCCOrder {
		out[i] = RegionCount{
			GCC:   gcc,
			Label: gcc + " (Greater " + gccCityName[gcc] + ")",
			Count: g.GccCounts[i],
		}
	}
	return out
}

func computeT3(g stats.GlobalStats) []DiversityEntry {
	authors := maps.Keys(g.AuthorRegionCounts)
	entries := make([]DiversityEntry, 0, len(authors))
	for _, author := range authors {
		regions := g.AuthorRegionCounts[author]
		if len(regions) == 0 {
			continue
		}
		var total int64
		ordered := make([]RegionCount, 0, len(regions))
		for _, gcc := range stats.CanonicalGCCOrder {
			c, ok := regions[gcc]
			if !ok || c == 0 {
				continue
			}
			ordered = append(ordered, RegionCount{GCC: gcc, Count: c})
			total += c
		}
		entries = append(entries, DiversityEntry{
			AuthorID: author,
			Regions:  ordered,
			Total:    total,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Regions) != len(entries[j].Regions) {
			return len(entries[i].Regions) > len(entries[j].Regions)
		}
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].AuthorID < entries[j].AuthorID
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

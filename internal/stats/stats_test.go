package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LOOP115/social-media-analytics/internal/stats"
)

func TestAddUnconditionalAuthorQualifiedRegion(t *testing.T) {
	s := stats.New()
	s.Add("A", true, "2gmel")
	s.Add("A", false, "")
	s.Add("B", true, "1gsyd")

	require.Equal(t, int64(2), s.AuthorCounts["A"])
	require.Equal(t, int64(1), s.AuthorCounts["B"])
	require.Equal(t, int64(1), s.AuthorRegionCounts["A"]["2gmel"])
	require.Equal(t, int64(1), s.GccCounts[1]) // 2gmel is index 1
	require.Equal(t, int64(1), s.GccCounts[0]) // 1gsyd is index 0

	// Invariant: sum(author_region_counts[a]) <= author_counts[a].
	var regionTotal int64
	for _, c := range s.AuthorRegionCounts["A"] {
		regionTotal += c
	}
	require.LessOrEqual(t, regionTotal, s.AuthorCounts["A"])
}

func TestMergeIsCommutativeAndAssociative(t *testing.T) {
	a := stats.New()
	a.Add("A", true, "2gmel")
	b := stats.New()
	b.Add("B", true, "1gsyd")
	b.Add("A", false, "")
	c := stats.New()
	c.Add("A", true, "1gsyd")

	forward := stats.Merge(a, b, c)
	reordered := stats.Merge(c, a, b)
	require.Equal(t, forward, reordered)

	ab := stats.LocalStats(stats.Merge(a, b))
	grouped := stats.Merge(&ab, c)
	require.Equal(t, forward, grouped)
}

func TestMergeZeroIsIdentity(t *testing.T) {
	a := stats.New()
	a.Add("A", true, "2gmel")
	a.Add("B", false, "")

	zero := stats.New()
	merged := stats.Merge(a, zero)
	want := stats.Merge(a)
	require.Equal(t, want, merged)
}

func TestMergeNilPartialsAreSkipped(t *testing.T) {
	a := stats.New()
	a.Add("A", true, "3gbri")
	merged := stats.Merge(a, nil, nil)
	require.Equal(t, stats.Merge(a), merged)
}

func TestRegionTotalIdentity(t *testing.T) {
	a := stats.New()
	a.Add("A", true, "2gmel")
	a.Add("A", true, "2gmel")
	a.Add("B", true, "1gsyd")
	b := stats.New()
	b.Add("C", true, "2gmel")

	g := stats.Merge(a, b)

	var fromRegions int64
	for _, regions := range g.AuthorRegionCounts {
		for _, c := range regions {
			fromRegions += c
		}
	}
	var fromGcc int64
	for _, c := range g.GccCounts {
		fromGcc += c
	}
	require.Equal(t, fromGcc, fromRegions)
}

func TestIndexOfGCC(t *testing.T) {
	for i, gcc := range stats.CanonicalGCCOrder {
		idx, ok := stats.IndexOfGCC(gcc)
		require.True(t, ok)
		require.Equal(t, i, idx)
	}
	_, ok := stats.IndexOfGCC("9oter")
	require.False(t, ok)
}

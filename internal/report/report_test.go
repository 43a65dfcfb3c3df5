package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LOOP115/social-media-analytics/internal/rank"
)

func TestFormatDiversityCellShape(t *testing.T) {
	row := rank.DiversityEntry{
		AuthorID: "A",
		Total:    3,
		Regions: []rank.RegionCount{
			{GCC: "1gsyd", Count: 2},
			{GCC: "2gmel", Count: 1},
		},
	}
	require.Equal(t, "2(#3 tweets - #2gsyd, #1gmel)", formatDiversityCell(row))
}

func TestFormatDiversityCellSingleRegion(t *testing.T) {
	row := rank.DiversityEntry{
		AuthorID: "A",
		Total:    1,
		Regions:  []rank.RegionCount{{GCC: "2gmel", Count: 1}},
	}
	require.Equal(t, "1(#1 tweets - #1gmel)", formatDiversityCell(row))
}

func TestGCCTail(t *testing.T) {
	require.Equal(t, "gmel", gccTail("2gmel"))
	require.Equal(t, "", gccTail(""))
}

func TestPrintProducesAllThreeTables(t *testing.T) {
	var buf bytes.Buffer
	r := rank.Report{
		T1: []rank.AuthorCount{{AuthorID: "A", Count: 5}},
		T3: []rank.DiversityEntry{{AuthorID: "A", Total: 1, Regions: []rank.RegionCount{{GCC: "2gmel", Count: 1}}}},
	}
	for i, gcc := range []string{"1gsyd", "2gmel", "3gbri", "4gade", "5gper", "6ghob", "7gdar", "8acte"} {
		r.T2[i] = rank.RegionCount{GCC: gcc, Label: gcc, Count: int64(i)}
	}

	require.NoError(t, Print(&buf, r, time.Now()))
	out := buf.String()
	require.Contains(t, out, "Task 1")
	require.Contains(t, out, "Task 2")
	require.Contains(t, out, "Task 3")
	require.Contains(t, out, "Execution Time")
}

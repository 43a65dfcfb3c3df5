package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LOOP115/social-media-analytics/internal/record"
	"github.com/LOOP115/social-media-analytics/internal/refindex"
	"github.com/LOOP115/social-media-analytics/internal/resolve"
	"github.com/LOOP115/social-media-analytics/internal/testutil"
)

func loadIndex(t *testing.T, entries []testutil.SalEntry) *refindex.ReferenceIndex {
	t.Helper()
	dir := t.TempDir()
	path, err := testutil.WriteSalFixtureFile(dir, "sal.json", entries)
	require.NoError(t, err)
	idx, err := refindex.Load(path, nil)
	require.NoError(t, err)
	return idx
}

// S1 — single record, matching.
func TestClassifyMatchingSuburb(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Melbourne", Ste: "2", Gcc: "2gmel", Sal: "sal1"},
	})

	res := resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "Melbourne, Victoria"})
	require.True(t, res.OK)
	require.Equal(t, "2gmel", res.GCC)
	require.Equal(t, "A", res.AuthorID)
}

// S2 — unqualified state: suburb exists, but under a different state.
func TestClassifyUnqualifiedState(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Melbourne", Ste: "2", Gcc: "2gmel", Sal: "sal1"},
	})

	res := resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "Melbourne, New South Wales"})
	require.False(t, res.OK)
}

// S3 — abbreviation mapping.
func TestClassifyStateAbbreviation(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Sydney", Ste: "1", Gcc: "1gsyd", Sal: "sal1"},
	})

	res := resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "Sydney, NSW"})
	require.True(t, res.OK)
	require.Equal(t, "1gsyd", res.GCC)
}

// S4 — parenthesized suburb in the reference file.
func TestClassifyParenthesizedReferenceSuburb(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Melbourne (City)", Ste: "2", Gcc: "2gmel", Sal: "sal1"},
	})

	res := resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "Melbourne, Vic."})
	require.True(t, res.OK)
	require.Equal(t, "2gmel", res.GCC)
}

func TestClassifyRejectsMissingFields(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Melbourne", Ste: "2", Gcc: "2gmel", Sal: "sal1"},
	})

	require.False(t, resolve.Classify(idx, record.Post{AuthorID: "", FullName: "Melbourne, Victoria"}).OK)
	require.False(t, resolve.Classify(idx, record.Post{AuthorID: "A", FullName: ""}).OK)
	require.False(t, resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "NoCommaHere"}).OK)
}

func TestClassifyRejectsUnknownSuburb(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Melbourne", Ste: "2", Gcc: "2gmel", Sal: "sal1"},
	})

	res := resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "Nowhere, Victoria"})
	require.False(t, res.OK)
}

func TestClassifyCapitalCityAsStateToken(t *testing.T) {
	idx := loadIndex(t, []testutil.SalEntry{
		{Name: "Bondi", Ste: "1", Gcc: "1gsyd", Sal: "sal1"},
	})

	res := resolve.Classify(idx, record.Post{AuthorID: "A", FullName: "Bondi, Sydney"})
	require.True(t, res.OK)
	require.Equal(t, "1gsyd", res.GCC)
}

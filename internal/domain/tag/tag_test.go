package tag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParse checks full-string matching and numeric extraction.
func TestParse(t *testing.T) {
	t.Parallel()

	got, err := Parse("23.05-py3")
	require.NoError(t, err)
	require.Equal(t, 23, got.Major)
	require.Equal(t, 5, got.Minor)
	require.Equal(t, "23.05-py3", got.String())
	require.False(t, got.IsZero())

	for _, bad := range []string{
		"",
		"23.05",
		"23.05-py2",
		"v23.05-py3",
		"23.05-py3 ",
		"23.05.1-py3",
		"99999999999999999999.1-py3",
	} {
		_, err = Parse(bad)
		require.ErrorIs(t, err, ErrInvalidTag, bad)
	}
}

// TestScan ensures tags are extracted from unstructured markup in order.
func TestScan(t *testing.T) {
	t.Parallel()

	body := `<li>nvcr.io/nvidia/pytorch:23.01-py3</li><li>22.12-py3</li><span>latest</span>`

	got := Scan(body)
	require.Len(t, got, 2)
	require.Equal(t, "23.01-py3", got[0].String())
	require.Equal(t, "22.12-py3", got[1].String())

	require.Empty(t, Scan("<html>no tags, only 23.01-py2 and 1.0</html>"))
}

// TestLatest_ComparesNumerically verifies tuple ordering rather than string ordering.
func TestLatest_ComparesNumerically(t *testing.T) {
	t.Parallel()

	got, ok := Latest(Scan("1.9-py3 12.3-py3 2.10-py3"))
	require.True(t, ok)
	require.Equal(t, "12.3-py3", got.String())

	got, ok = Latest(Scan("9.1-py3 10.0-py3"))
	require.True(t, ok)
	require.Equal(t, "10.0-py3", got.String())

	got, ok = Latest(Scan("23.9-py3 23.10-py3"))
	require.True(t, ok)
	require.Equal(t, "23.10-py3", got.String())
}

// TestLatest_TieKeepsFirst checks that equal pairs keep the earliest spelling.
func TestLatest_TieKeepsFirst(t *testing.T) {
	t.Parallel()

	got, ok := Latest(Scan("23.05-py3 23.5-py3"))
	require.True(t, ok)
	require.Equal(t, "23.05-py3", got.String())
}

// TestLatest_Empty reports absence for no candidates.
func TestLatest_Empty(t *testing.T) {
	t.Parallel()

	got, ok := Latest(nil)
	require.False(t, ok)
	require.True(t, got.IsZero())
}

// TestEqual compares textual identity, not numeric value.
func TestEqual(t *testing.T) {
	t.Parallel()

	a, err := Parse("23.05-py3")
	require.NoError(t, err)

	b, err := Parse("23.5-py3")
	require.NoError(t, err)

	require.Zero(t, a.Compare(b))
	require.False(t, a.Equal(b))
	require.True(t, a.Equal(a))
}

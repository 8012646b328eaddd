package flatfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"quizdesk/internal/domain"
)

func tempTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable(filepath.Join(t.TempDir(), "rows.csv"), []string{"id", "name"})
	require.NoError(t, tbl.CreateIfMissing())
	require.NoError(t, tbl.Load())
	return tbl
}

func TestCreateIfMissingIsIdempotent(t *testing.T) {
	tbl := tempTable(t)
	_, err := tbl.Append([]string{"a"})
	require.NoError(t, err)
	require.NoError(t, tbl.Save())

	// a second init call must not wipe existing rows
	require.NoError(t, tbl.CreateIfMissing())
	require.NoError(t, tbl.Load())
	require.Equal(t, 1, tbl.Len())
}

func TestIDsAreNeverReused(t *testing.T) {
	tbl := tempTable(t)

	var ids []int64
	for _, name := range []string{"a", "b", "c", "d"} {
		id, err := tbl.Append([]string{name})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Equal(t, []int64{1, 2, 3, 4}, ids)

	// delete the middle and the tail, leaving non-contiguous ids
	require.Equal(t, 2, tbl.DeleteWhere(func(row []string) bool {
		return row[1] == "b" || row[1] == "d"
	}))

	id, err := tbl.Append([]string{"e"})
	require.NoError(t, err)
	require.Equal(t, int64(4), id, "next id must be max+1 over surviving rows")

	// deleting the current max must still not resurrect its id
	require.True(t, tbl.DeleteFirst(func(row []string) bool { return row[1] == "e" }))
	id, err = tbl.Append([]string{"f"})
	require.NoError(t, err)
	require.Equal(t, int64(4), id)
}

func TestDeleteFirstStopsAtFirstMatch(t *testing.T) {
	tbl := tempTable(t)
	for _, name := range []string{"x", "x", "x"} {
		_, err := tbl.Append([]string{name})
		require.NoError(t, err)
	}
	require.True(t, tbl.DeleteFirst(func(row []string) bool { return row[1] == "x" }))
	require.Equal(t, 2, tbl.Len())
	require.False(t, tbl.DeleteFirst(func(row []string) bool { return row[1] == "y" }))
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.csv")

	tbl := NewTable(path, []string{"id", "name"})
	require.NoError(t, tbl.CreateIfMissing())
	require.NoError(t, tbl.Load())
	_, err := tbl.Append([]string{"with,comma"})
	require.NoError(t, err)
	require.NoError(t, tbl.Save())

	reopened := NewTable(path, []string{"id", "name"})
	require.NoError(t, reopened.Load())
	rows := reopened.Scan(func([]string) bool { return true })
	require.Len(t, rows, 1)
	require.Equal(t, "with,comma", rows[0][1])
}

func TestLoadRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,wrong\n"), 0o644))

	tbl := NewTable(path, []string{"id", "name"})
	err := tbl.Load()
	require.True(t, errors.Is(err, domain.ErrStorage), "got %v", err)
}

func TestLoadRejectsBadArity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,a,extra\n"), 0o644))

	tbl := NewTable(path, []string{"id", "name"})
	err := tbl.Load()
	require.True(t, errors.Is(err, domain.ErrStorage), "short or long rows must fail as storage errors, got %v", err)
}

func TestAppendRejectsBadArity(t *testing.T) {
	tbl := tempTable(t)
	_, err := tbl.Append([]string{"too", "many"})
	require.True(t, errors.Is(err, domain.ErrStorage))
}

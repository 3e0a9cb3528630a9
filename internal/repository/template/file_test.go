package template

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(afero.NewMemMapFs(), "cookiecutter.json")

	record, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, record)
}

// TestFileRepository_Malformed verifies Load returns ErrMalformed for broken content.
func TestFileRepository_Malformed(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()

	for _, contents := range []string{``, `{"a": `, `["a"]`, `{"a": 1} trailing`} {
		require.NoError(t, afero.WriteFile(fsys, "cookiecutter.json", []byte(contents), 0o644))

		record, err := NewFileRepository(fsys, "cookiecutter.json").Load(context.Background())
		require.ErrorIs(t, err, ErrMalformed, contents)
		require.Nil(t, record)
	}
}

// TestFileRepository_SaveLoadRoundtrip ensures Save rewrites the file and Load reads it back.
func TestFileRepository_SaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "cookiecutter.json",
		[]byte(`{"nvidia_docker_tag": "23.01-py3", "other_key": "x"}`+"\n"), 0o640))

	repo := NewFileRepository(fsys, "./cookiecutter.json")
	require.Equal(t, "cookiecutter.json", repo.Path())

	record, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, record.SetString("nvidia_docker_tag", "23.05-py3"))
	require.NoError(t, repo.Save(context.Background(), record))

	contents, err := afero.ReadFile(fsys, "cookiecutter.json")
	require.NoError(t, err)
	require.Equal(t, "{\n    \"nvidia_docker_tag\": \"23.05-py3\",\n    \"other_key\": \"x\"\n}\n", string(contents))

	info, err := fsys.Stat("cookiecutter.json")
	require.NoError(t, err)
	require.Equal(t, "-rw-r-----", info.Mode().Perm().String())

	reloaded, err := repo.Load(context.Background())
	require.NoError(t, err)

	value, ok := reloaded.StringValue("nvidia_docker_tag")
	require.True(t, ok)
	require.Equal(t, "23.05-py3", value)
}

// TestFileRepository_NoTrailingNewline keeps files without a final newline that way.
func TestFileRepository_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "c.json", []byte(`{"k": "v"}`), 0o644))

	repo := NewFileRepository(fsys, "c.json")

	record, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), record))

	contents, err := afero.ReadFile(fsys, "c.json")
	require.NoError(t, err)
	require.Equal(t, "{\n    \"k\": \"v\"\n}", string(contents))
}

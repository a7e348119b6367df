package tests

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/config"
)

func TestDefaultPath_ReturnsPathInHomeDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.HomeEnv, "")

	p, err := config.DefaultPath()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".recipes", "credentials.json"), p)
}

func TestLoad_FileNotExists_ReturnsEmptyCredentials(t *testing.T) {
	creds, err := config.Load(filepath.Join(t.TempDir(), "no-such-file.json"))
	require.NoError(t, err)
	require.NotNil(t, creds)
	require.False(t, creds.LoggedIn())
	require.Empty(t, creds.RefreshToken)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "credentials.json") // вложенная директория

	want := &config.Credentials{
		Server:       "http://127.0.0.1:8080",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}
	require.NoError(t, config.Save(p, want))

	got, err := config.Load(p)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.True(t, got.LoggedIn())

	// права проверяем только не на windows
	if runtime.GOOS != "windows" {
		st, err := os.Stat(p)
		require.NoError(t, err)
		// группа и остальные не имеют доступа
		require.Zero(t, st.Mode().Perm()&0o077, "perm %o", st.Mode().Perm())
	}
}

func TestLoad_BadJSON_ReturnsError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(p, []byte("{bad-json"), 0o600))

	_, err := config.Load(p)
	require.Error(t, err)
}

func TestDir_RecipesHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.HomeEnv, dir)

	got, err := config.Dir()
	require.NoError(t, err)
	require.Equal(t, dir, got)

	p, err := config.DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "credentials.json"), p)
}

// перезапись не оставляет временных файлов рядом
func TestWriteJSON_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "credentials.json")

	require.NoError(t, config.Save(p, &config.Credentials{AccessToken: "a1"}))
	require.NoError(t, config.Save(p, &config.Credentials{AccessToken: "a2"}))

	got, err := config.Load(p)
	require.NoError(t, err)
	require.Equal(t, "a2", got.AccessToken)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/server/storage"
)

func TestImageStorage_SaveDelete(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewImageStorage(root, "/media")
	require.NoError(t, err)

	name := "uploads/recipe/abc.jpg"
	require.NoError(t, s.Save(name, []byte("data")))
	require.True(t, s.Exists(name))

	data, err := os.ReadFile(filepath.Join(root, "uploads", "recipe", "abc.jpg"))
	require.NoError(t, err)
	require.Equal(t, "data", string(data))

	require.NoError(t, s.Delete(name))
	require.False(t, s.Exists(name))

	// повторное удаление не ошибка
	require.NoError(t, s.Delete(name))
}

func TestImageStorage_RejectsEscapingPaths(t *testing.T) {
	s, err := storage.NewImageStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	for _, name := range []string{"../evil.jpg", "/etc/passwd", "", "uploads/../../x"} {
		require.ErrorIs(t, s.Save(name, []byte("x")), storage.ErrInvalidPath, name)
		require.ErrorIs(t, s.Delete(name), storage.ErrInvalidPath, name)
	}
}

func TestImageStorage_EmptyData(t *testing.T) {
	s, err := storage.NewImageStorage(t.TempDir(), "/media/")
	require.NoError(t, err)
	require.Error(t, s.Save("uploads/recipe/a.png", nil))
}

func TestImageStorage_URL(t *testing.T) {
	s, err := storage.NewImageStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	require.Equal(t, "/media/uploads/recipe/a.png", s.URL("uploads/recipe/a.png"))

	s, err = storage.NewImageStorage(t.TempDir(), "http://cdn.example.com/media/")
	require.NoError(t, err)
	require.Equal(t, "http://cdn.example.com/media/uploads/recipe/a.png", s.URL("uploads/recipe/a.png"))
}

func TestNewImageStorage_EmptyRoot(t *testing.T) {
	_, err := storage.NewImageStorage("", "/media/")
	require.Error(t, err)
}

package tests

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/memory"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/models"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	cmd := cli.NewRootCmd("1.0.0", "2026-01-16")

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, w := range []string{"register", "login", "logout", "refresh", "me", "recipe", "tag", "ingredient", "version"} {
		require.True(t, names[w], "expected subcommand %q", w)
	}
}

// файлы берутся из домашнего каталога; HOME подменяем на временный
func TestNewRootCmd_PersistentPreRunE_LoadsFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RECIPES_HOME", "")

	credsPath, err := config.DefaultPath()
	require.NoError(t, err)
	require.NoError(t, config.Save(credsPath, &config.Credentials{AccessToken: "a", RefreshToken: "r"}))

	recipesPath, err := memory.DefaultRecipesPath()
	require.NoError(t, err)
	store := memory.NewRecipes()
	store.ReplaceAll([]models.RecipeDetail{{Recipe: models.Recipe{ID: "r1", Title: "Soup"}}}, time.Now())
	require.NoError(t, memory.SaveToFile(recipesPath, store))

	// list --cached работает только если обе загрузки прошли
	out, err := run(cli.NewRootCmd("1.0.0", "2026-01-16"), "recipe", "list", "--cached")
	require.NoError(t, err)
	require.Contains(t, out, "Soup")
}

func TestNewRootCmd_PersistentPreRunE_ReturnsErrorOnBadCredsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(p, []byte("{not-json"), 0o600))

	_, err := run(cli.NewRootCmd("1.0.0", "2026-01-16"), "version", "--credentials", p)
	require.Error(t, err)
}

func TestNewRootCmd_UsesServerFromCredentials(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "credentials.json")
	// сервер недоступен: проверяем, что ошибка содержит адрес из файла
	require.NoError(t, config.Save(p, &config.Credentials{Server: "http://127.0.0.1:1", AccessToken: "a"}))

	_, err := run(cli.NewRootCmd("1.0.0", "2026-01-16"), "me", "--credentials", p, "--cache", filepath.Join(dir, "r.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestNewVersionCmd_PrintsVersionAndBuildDate(t *testing.T) {
	out, err := run(cli.NewVersionCmd("1.2.3", "2026-01-16"))
	require.NoError(t, err)
	require.Contains(t, out, "version=1.2.3")
	require.Contains(t, out, "build_date=2026-01-16")

	out, err = run(cli.NewVersionCmd("1.2.3", "2026-01-16"), "--short")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", out)
}

package tests

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/config"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/memory"
)

// newApp собирает состояние CLI так, как это делает PersistentPreRunE root-команды.
func newApp(t *testing.T, serverURL, accessToken string) *cli.App {
	t.Helper()
	dir := t.TempDir()
	return &cli.App{
		ServerURL:   serverURL,
		CredsPath:   filepath.Join(dir, "credentials.json"),
		Creds:       &config.Credentials{AccessToken: accessToken, RefreshToken: "refresh-1"},
		RecipesPath: filepath.Join(dir, "recipes.json"),
		Recipes:     memory.NewRecipes(),
	}
}

// run выполняет команду и возвращает stdout+stderr.
func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// withPassword подменяет чтение пароля на время теста.
func withPassword(t *testing.T, pw string) {
	t.Helper()
	orig := cli.ReadPassword
	t.Cleanup(func() { cli.ReadPassword = orig })
	cli.ReadPassword = func(*cobra.Command, bool) (string, error) { return pw, nil }
}

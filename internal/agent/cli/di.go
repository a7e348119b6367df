package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/api"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/agent/memory"
	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/prompt"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return prompt.ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password", fromStdin)
	}
	SaveRecipesToFile = memory.SaveToFile
)

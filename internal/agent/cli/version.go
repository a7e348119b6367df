package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCmd выводит версию и дату сборки клиента.
//
//	recipes version
//	recipes version --short
func NewVersionCmd(buildVersion, buildDate string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Показать версию и дату сборки",
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), buildVersion)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%s\nbuild_date=%s\ngo=%s\n",
				buildVersion, buildDate, runtime.Version())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print version only")
	return cmd
}

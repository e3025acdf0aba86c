package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the obsmod version and module API version",
	Run: func(cmd *cobra.Command, args []string) {
		v := buildVersion
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "obsmod %s (module API %s)\n", v, pluginmodule.APIVersionString(pluginmodule.APIVersion))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package cli

import (
	"github.com/spf13/cobra"
)

const (
	ExitSuccess       = 0
	ExitGenericError  = 1
	ExitConfigInvalid = 2
)

var rootCmd = &cobra.Command{
	Use:           "spotimcp",
	Short:         "MCP tool server for the Spotify catalog and desktop player",
	Long:          "spotimcp exposes the Spotify Web API catalog and the local Spotify desktop player as MCP tools over stdio.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns an error; exit code is set by RunE.
func Execute() error {
	return rootCmd.Execute()
}

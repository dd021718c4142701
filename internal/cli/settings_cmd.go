package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"spotimcp/internal/config"
	"spotimcp/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit configuration interactively",
	RunE:  runSettings,
}

func runSettings(_ *cobra.Command, _ []string) error {
	if !IsTTY() {
		return errors.New("settings requires an interactive terminal")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return settings.Run(cfg)
}

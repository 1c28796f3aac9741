package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/d1nch8g/animalese/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an animalese config file",
	Long:  `Creates a config file with default settings at the --config path, or ` + config.DefaultPath() + `.`,
	Args:  cobra.NoArgs,
	// Writing the defaults must not depend on reading a config first.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	configPath = expandHome(configPath)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := config.WriteDefaultConfig(configPath); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	return nil
}

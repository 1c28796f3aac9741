package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d1nch8g/animalese/settings"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available speaking types",
	Args:  cobra.NoArgs,
	RunE:  runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	current := store.Snapshot().SpeakingType
	out := cmd.OutOrStdout()

	for _, voice := range settings.Voices {
		marker := " "
		if voice.Type == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-16s %s\n", marker, voice.Type, voice.Label)
	}
	return nil
}

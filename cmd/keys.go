package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d1nch8g/animalese/engine"
	"github.com/d1nch8g/animalese/keyboard"
	"github.com/d1nch8g/animalese/sound"
)

var keysCmd = &cobra.Command{
	Use:   "keys TEXT...",
	Short: "Show which sound each character of TEXT would play",
	Long: `Prints the sound table key for every character of TEXT under the current
settings without playing anything. "-" means the character is silent,
"(missing)" means the key has no sound in the table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	eng := engine.NewEngine(engine.EngineConfig{}, keyboard.NewHub(), store, table, sound.NoopPlayer{})

	out := cmd.OutOrStdout()
	for _, r := range strings.Join(args, " ") {
		key, ok := eng.Lookup(string(r))
		switch {
		case !ok:
			key = "-"
		default:
			if _, found := table.Get(key); !found {
				key += " (missing)"
			}
		}
		fmt.Fprintf(out, "%q\t%s\n", r, key)
	}
	return nil
}

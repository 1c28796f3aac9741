package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/d1nch8g/animalese/keyboard"
)

var sayDelay time.Duration

var sayCmd = &cobra.Command{
	Use:   "say TEXT...",
	Short: "Speak TEXT as if it were typed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSay,
}

func init() {
	sayCmd.Flags().DurationVar(&sayDelay, "delay", 90*time.Millisecond, "pause between characters")
	rootCmd.AddCommand(sayCmd)
}

// Publisher is where typed characters are sent.
type Publisher interface {
	Publish(ev keyboard.Event)
}

func runSay(cmd *cobra.Command, args []string) error {
	hub := keyboard.NewHub()
	eng, player, err := startEngine(cmd, hub)
	if err != nil {
		return err
	}
	// Terminate waits for the last sounds to finish.
	defer player.Terminate()

	eng.Activate()
	defer eng.Deactivate()

	return typeText(cmd.Context(), hub, strings.Join(args, " "), sayDelay)
}

// typeText publishes each character of text as a key press in a text box,
// pausing delay between characters.
func typeText(ctx context.Context, hub Publisher, text string, delay time.Duration) error {
	focus := &keyboard.Focus{Role: keyboard.RoleTextbox}

	first := true
	for _, r := range text {
		if !first && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		first = false
		hub.Publish(keyboard.Event{Key: string(r), Focus: focus})
	}
	return nil
}

package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/simple-rl/types"
)

// AtariCommand is kept so that scripts selecting the game environment fail
// with a clear error. No emulator binding is available.
func AtariCommand() *cobra.Command {
	var rom string

	cmd := &cobra.Command{
		Use:   "atari",
		Short: "Compare agents on an Atari game (requires an emulator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("atari rom %q: %w", rom, types.ErrEnvironmentUnavailable)
		},
	}
	cmd.PersistentFlags().StringVar(&rom, "rom", "breakout", "Game to play")
	return cmd
}

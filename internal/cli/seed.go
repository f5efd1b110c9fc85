package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSeedCmd creates the "seed" command.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demonstration dataset",
		Long:  "Seed loads a small demo dataset. A store that already holds models is left untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.Seed(); err != nil {
				return fmt.Errorf("seed store: %w", err)
			}
			fmt.Println("Seeded demonstration dataset")
			return nil
		},
	}
}

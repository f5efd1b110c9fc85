// People commands: list, add, get. Each prints exactly one response
// envelope, success or failure, matching the HTTP adapter's contract.

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/canon"
)

// newListCmd creates the "list" command.
func newListCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people in the knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			pipeline := canon.NewPipeline(nil)
			models, err := pipeline.Models(func() ([]map[string]any, error) {
				return store.ListModels(typeName)
			})
			if err != nil {
				return printEnvelope(canon.EnvelopeFromError(err))
			}

			message := fmt.Sprintf("Found %d people in your knowledge base", len(models))
			return printEnvelope(canon.SuccessEnvelope(models, message))
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "Person", "base type to list")
	return cmd
}

// newAddCmd creates the "add" command.
func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> [description]",
		Short: "Add a person to the knowledge base",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := ""
			if len(args) > 1 {
				body = args[1]
			}

			store, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			pipeline := canon.NewPipeline(nil)
			model, err := pipeline.Model(func() (any, error) {
				row, err := store.AddModel("Person", args[0], body)
				if err != nil {
					return nil, err
				}
				return row, nil
			})
			if err != nil {
				return printEnvelope(canon.EnvelopeFromError(err))
			}

			message := fmt.Sprintf("Successfully added %q to your knowledge base", model.Title)
			return printEnvelope(canon.SuccessEnvelope(model, message))
		},
	}
}

// newGetCmd creates the "get" command.
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get the full record for a person by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			store, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			pipeline := canon.NewPipeline(nil)
			full, err := pipeline.ModelFullData(func() (any, error) {
				row, err := store.ModelFull(id)
				if err != nil {
					return nil, err
				}
				return row, nil
			})
			if err != nil {
				return printEnvelope(canon.EnvelopeFromError(err))
			}

			message := fmt.Sprintf("Retrieved details for person %d", id)
			return printEnvelope(canon.SuccessEnvelope(full, message))
		},
	}
}

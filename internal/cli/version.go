package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the satchel release version.
const Version = "0.1.0"

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("satchel v" + Version)
		},
	}
}

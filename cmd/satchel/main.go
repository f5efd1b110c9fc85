// Command satchel is the CLI for the Satchel knowledge store.
package main

import "github.com/mesh-intelligence/satchel/internal/cli"

func main() {
	cli.Execute()
}

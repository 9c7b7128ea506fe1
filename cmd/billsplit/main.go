/*
main.go - Application entry point

PURPOSE:
  Wires the billsplit commands into a single binary. The split command
  computes a one-shot split from pattern arguments; serve runs the web
  UI and JSON API; groups inspects the recently-used groups cache.

EXAMPLES:
  # One-shot split in the terminal
  billsplit split "300,Alice,Bob,Marshall" -Food "200,A,B,M" -Drinks "50,Al,Bo"

  # Web server with a persistent groups cache
  billsplit serve --db ./billsplit.db

SEE ALSO:
  - cli/split.go: Pattern-driven one-shot splits
  - cli/serve.go: HTTP server lifecycle
  - cli/groups.go: Groups cache listing
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/billsplit/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "billsplit",
		Short:         "billsplit - figure out who owes what on a shared receipt",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.SplitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.GroupsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

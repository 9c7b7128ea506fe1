/*
split.go - One-shot split from the command line

PURPOSE:
  Builds a receipt from pattern arguments and prints the split table.
  The whole bill is described in one invocation; nothing is stored.

ARGUMENTS:
  The first argument is the receipt pattern "Total,Person1,Person2".
  After that, each "-Name" flag introduces an item and the next argument
  is its pattern "Value,Abbrev1,Abbrev2"; at least one item is required.
  Abbreviations resolve against the participant names, so "-Food 200,A,B"
  works once Alice and Bob are on the receipt. Flag parsing is disabled
  because item names are user-chosen; only --plain and help are
  recognized.

EXAMPLES:
  # Dinner for three, drinks shared by two
  billsplit split "300,Alice,Bob,Marshall" -Food "200,A,B,M" -Drinks "50,Al,Bo"

  # Same, without ANSI styling
  billsplit split "300,Alice,Bob,Marshall" -Food "200,A,B,M" --plain

SEE ALSO:
  - pattern: Argument pairing and pattern parsing
  - renderer: Table output paths
*/
package cli

import (
	"github.com/spf13/cobra"

	"github.com/warp/billsplit/pattern"
	"github.com/warp/billsplit/renderer"
)

// SplitCmd returns the split command.
func SplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `split "Total,Person1,Person2" -Name "Value,Abbrev1,..." [more items]`,
		Short: "Split a receipt described by pattern arguments",
		Long: `Build a receipt from pattern arguments and print who owes what.

The first argument is the receipt pattern: the total followed by at
least two participant names, comma-separated. Each -Name flag then adds
an item named Name; its pattern is the item value followed by
abbreviations of the people sharing it. Whatever the items leave
uncovered is distributed proportionally to what each person already
owes.`,
		DisableFlagParsing: true,
		RunE:               runSplit,
	}
}

func runSplit(cmd *cobra.Command, args []string) error {
	// Item flags carry user-chosen names, so cobra's parser is off and
	// the few real flags are picked out by hand.
	plain := false
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "--plain":
			plain = true
		case "-h", "--help":
			return cmd.Help()
		default:
			rest = append(rest, arg)
		}
	}

	rec, err := pattern.Build(rest)
	if err != nil {
		return err
	}
	splits, err := rec.CalculateSplits()
	if err != nil {
		return err
	}
	renderer.WriteTable(cmd.OutOrStdout(), splits, plain)
	return nil
}

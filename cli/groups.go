/*
groups.go - Inspect the recently-used groups cache

PURPOSE:
  Lists the participant groups the web UI offers on its splash page,
  newest first. Only useful against a SQLite-backed cache; the in-memory
  cache dies with the server process.
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/warp/billsplit/config"
	"github.com/warp/billsplit/store/sqlite"
)

var (
	groupNameColor = color.New(color.FgCyan)
	groupTimeColor = color.New(color.FgHiBlack)
)

// GroupsCmd returns the groups command.
func GroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List recently used participant groups",
		RunE:  runGroups,
	}

	cmd.Flags().String("db", "", "groups database path (overrides BILLSPLIT_DB)")

	return cmd
}

func runGroups(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}
	if cfg.DBPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No groups database configured; set BILLSPLIT_DB or pass --db.")
		return nil
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	recent, err := store.Recent(cmd.Context(), 0)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cached groups yet.")
		return nil
	}

	width := 0
	for _, g := range recent {
		if n := len(strings.Join(g.Names, ", ")); n > width {
			width = n
		}
	}
	for _, g := range recent {
		names := strings.Join(g.Names, ", ")
		pad := strings.Repeat(" ", width-len(names)+2)
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n",
			groupNameColor.Sprint(names),
			pad,
			groupTimeColor.Sprint(g.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

// Package lasbackcli is the command-line surface: serve the back office,
// write the initial .env, and manage database snapshots.
package lasbackcli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lasback",
	Short: "LAS back office server and tools",
	Long: `lasback runs the branch back office: staff sign-in, sales intake,
shipping, event referrals, math letters, and the weekly schedule grid.
State lives in a single SQLite file next to the binary.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

package lasbackcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zdevbro-cpu/las-backoffice/internal/backup"
	"github.com/zdevbro-cpu/las-backoffice/internal/config"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write an xz-compressed snapshot of the database",
	RunE:  runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	path, err := backup.Create(cfg.DBPath, cfg.BackupDir)
	if err != nil {
		return err
	}
	fmt.Printf("snapshot written to %s\n", path)
	return nil
}

var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot>",
	Short: "Restore the database from a snapshot",
	Long: `restore overwrites the configured database file with the contents
of an xz snapshot. Stop the server before restoring.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := backup.Restore(args[0], cfg.DBPath); err != nil {
		return err
	}
	fmt.Printf("restored %s from %s\n", cfg.DBPath, args[0])
	return nil
}

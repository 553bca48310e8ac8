package lasbackcli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zdevbro-cpu/las-backoffice/internal/security"
)

var (
	setupAdminUser string
	setupAdminPass string
	setupAddr      string
	setupDBPath    string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the initial .env file",
	Long: `setup writes a .env file in the current directory with the server
address, database path, and admin credentials. The admin password must
be at least 10 characters; it is stored in .env and hashed into the
database on first serve.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupAdminUser, "admin-user", "admin", "Admin username")
	setupCmd.Flags().StringVar(&setupAdminPass, "admin-pass", "", "Admin password (generated when empty)")
	setupCmd.Flags().StringVar(&setupAddr, "addr", ":8080", "Listen address")
	setupCmd.Flags().StringVar(&setupDBPath, "db", "las.db", "SQLite database path")
}

func runSetup(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(".env"); err == nil {
		return errors.New(".env already exists; remove it first to re-run setup")
	}

	password := setupAdminPass
	generated := false
	if password == "" {
		token, err := security.RandomToken(12)
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		password = token
		generated = true
	}
	if len(password) < 10 {
		return errors.New("admin password must be at least 10 characters")
	}

	env := map[string]string{
		"LAS_ADDR":           setupAddr,
		"LAS_DB_PATH":        setupDBPath,
		"LAS_BACKUP_DIR":     "backups",
		"LAS_ADMIN_USERNAME": setupAdminUser,
		"LAS_ADMIN_PASSWORD": password,
	}
	if err := godotenv.Write(env, ".env"); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}

	fmt.Println("wrote .env")
	if generated {
		fmt.Printf("generated admin password: %s\n", password)
	}
	return nil
}

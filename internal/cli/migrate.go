package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskping/taskping/internal/storage"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply the sqlite schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.DBPath == "" {
				return errors.New("db_path is not configured")
			}

			db, err := sql.Open("sqlite3", cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open sqlite: %w", err)
			}
			defer func() { _ = db.Close() }()

			if down {
				if err := storage.MigrateDown(db); err != nil {
					return err
				}
				cmd.Println("migrated down")
				return nil
			}
			if err := storage.MigrateUp(db); err != nil {
				return err
			}
			cmd.Println("migrated up")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll the schema back instead")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/noticeflow/internal/services"
)

var (
	migrateFrom int64
	migrateTo   int64
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy people from the legacy register as new undispatched records",
	Long: `Migrate reads legacy record ids in [--from, --to], drops rows without a
name and starts a new case after each run of them, and appends the people to
the register with fresh record and case ids. Dispatch fields are left empty.

Record ids continue at the register's highest id + 1 and the first case at
the highest case id + 1; nameless rows before the first person are ignored.

Example:
  noticeflow migrate --from 20444 --to 21057`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Int64Var(&migrateFrom, "from", 0, "First legacy record id")
	migrateCmd.Flags().Int64Var(&migrateTo, "to", 0, "Last legacy record id")
	_ = migrateCmd.MarkFlagRequired("from")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	session, err := services.OpenSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	rows, err := session.Migrator().Migrate(ctx, migrateFrom, migrateTo)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No legacy records to migrate")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d records into cases %d-%d\n",
		len(rows), rows[0].CaseID, rows[len(rows)-1].CaseID)
	return nil
}

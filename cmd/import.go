/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/migrate"
	"github.com/jyokotori/neko-words/internal/infrastructure/server"
	"github.com/jyokotori/neko-words/internal/usecase/backup"
)

const importPrefix = "backup.import"

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import words and reviews from a JSON Lines backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		opts := loadBackupOptions(importPrefix, "input")
		if opts.path == "" {
			return errors.New("set --input to a backup file or - for stdin")
		}

		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}
		db, cleanup, err := database.NewConnection(cfg, logger)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()
		if err := migrate.Create(cmd.Context(), db.Dialect, db.DB); err != nil {
			return err
		}

		r, closers, err := openBackupSource(cmd.InOrStdin(), opts)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closers.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		tally := importTally{}
		importOpts := []backup.ImportOption{backup.WithImportReporter(tally)}
		if len(opts.tables) > 0 {
			importOpts = append(importOpts, backup.WithImportTables(opts.tables))
		}
		service := backup.NewService(db, backup.WithBatchSize(opts.batchSize))
		if err := service.Import(cmd.Context(), r, importOpts...); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}

		logger.WithField("source", opts.path).Info("backup imported")
		cmd.Printf("Imported %s\n", tally)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "backup file path, - for stdin")
	importCmd.Flags().Bool("gzip", false, "input is gzip compressed")
	importCmd.Flags().StringSlice("tables", nil, "only import these tables (comma separated or repeated)")
	importCmd.Flags().Int("batch-size", 0, "rows per batch (default 512)")
	bindBackupFlags(importCmd, importPrefix, "input", "input")
}

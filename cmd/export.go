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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/server"
	"github.com/jyokotori/neko-words/internal/usecase/backup"
)

const exportPrefix = "backup.export"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export words and reviews as a JSON Lines backup",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}

		opts := loadBackupOptions(exportPrefix, "output")
		if opts.path == "" {
			opts.path = defaultExportFilename(opts.gzip, time.Now())
		}

		db, cleanup, err := database.NewConnection(cfg, logger)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		w, closers, err := openBackupSink(cmd.OutOrStdout(), opts)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closers.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		exportOpts := []backup.ExportOption{backup.WithProgressReporter(newCLIProgress(cmd.ErrOrStderr()))}
		if len(opts.tables) > 0 {
			exportOpts = append(exportOpts, backup.WithTables(opts.tables))
		}
		service := backup.NewService(db, backup.WithBatchSize(opts.batchSize))
		if err := service.Export(cmd.Context(), w, exportOpts...); err != nil {
			return fmt.Errorf("export backup: %w", err)
		}

		if opts.stdio() {
			cmd.PrintErrln("Backup written to stdout")
		} else {
			cmd.PrintErrf("Backup written to %s\n", opts.path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "backup file path, - for stdout")
	exportCmd.Flags().Bool("gzip", false, "gzip the output")
	exportCmd.Flags().StringSlice("tables", nil, "only export these tables (comma separated or repeated)")
	exportCmd.Flags().Int("batch-size", 0, "rows per batch (default 512)")
	bindBackupFlags(exportCmd, exportPrefix, "output", "output")
}

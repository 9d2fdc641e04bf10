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

	"github.com/spf13/cobra"

	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/migrate"
	"github.com/jyokotori/neko-words/internal/infrastructure/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the words and reviews tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
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
		cmd.Printf("Schema is up to date (%s)\n", db.Dialect)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

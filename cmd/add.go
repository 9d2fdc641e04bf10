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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jyokotori/neko-words/internal/app"
	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/usecase"
)

var addCmd = &cobra.Command{
	Use:   "add [word...]",
	Short: "Add words to the review queue",
	Long: `Add one or more words. Without arguments an interactive prompt reads one
word per line until an empty line or EOF. Existing words are not duplicated;
their review is reset instead.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindClientFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := app.InitializeClient(cfgFile)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		closeLog, err := redirectClientLog(container.Logger, container.Config.Client.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		entry := usecase.NewWordEntry(container.Client, entity.Language(container.Config.Client.Language))
		if len(args) > 0 {
			for _, word := range args {
				submitWord(cmd.Context(), cmd.OutOrStdout(), entry, word)
			}
			return nil
		}
		return promptWords(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), entry)
	},
}

func promptWords(ctx context.Context, in io.Reader, out io.Writer, entry *usecase.WordEntry) error {
	fmt.Fprintln(out, "Type a word and press Enter. An empty line finishes.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		submitWord(ctx, out, entry, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	recent := entry.Recent()
	if len(recent) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nRecently added:")
	for _, w := range recent {
		fmt.Fprintf(out, "  %s  %s\n", w.Text, w.Translation)
	}
	return nil
}

func submitWord(ctx context.Context, out io.Writer, entry *usecase.WordEntry, text string) {
	res, err := entry.Submit(ctx, text)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Added %s: %s\n", res.Word.Text, res.Word.Translation)
	case res.Duplicate:
		fmt.Fprintf(out, "%s: %s\n", text, res.Message)
	case errors.Is(err, entity.ErrInvalidWordText):
		fmt.Fprintln(out, "Please type a word.")
	default:
		fmt.Fprintf(out, "Could not add %s: %s\n", text, usecase.FailureMessage(err))
	}
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("tag", "t", "", "language tag of the words (default from config)")
	addCmd.Flags().String("log-file", "", "write client logs to this file")
}

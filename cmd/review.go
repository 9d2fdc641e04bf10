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
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jyokotori/neko-words/internal/adapter/tui"
	"github.com/jyokotori/neko-words/internal/app"
	"github.com/jyokotori/neko-words/internal/usecase"
)

const (
	clientLanguageKey = "client.language"
	clientLimitKey    = "client.review_limit"
	clientLogFileKey  = "client.log_file"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the cards that are due",
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

		session := usecase.NewReviewSession(
			container.Client,
			container.Client,
			container.Client,
			container.Config.Client.ReviewLimit,
			container.Logger,
		)
		model := tui.NewReviewModel(cmd.Context(), session, container.Player)
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("run review screen: %w", err)
		}

		view := session.Snapshot()
		switch view.State {
		case usecase.SessionCompleted:
			cmd.Printf("Reviewed %d cards.\n", view.Length)
		case usecase.SessionActive:
			cmd.Printf("Review paused at card %d / %d.\n", view.Position+1, view.Length)
		case usecase.SessionError:
			return view.Err
		}
		return nil
	},
}

// redirectClientLog keeps log lines off the terminal while the review screen owns it.
func redirectClientLog(logger *logrus.Logger, path string) (func(), error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return func() { _ = f.Close() }, nil
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringP("tag", "t", "", "language tag of the cards to review (default from config)")
	reviewCmd.Flags().Int("limit", 0, "maximum number of cards in the session")
	reviewCmd.Flags().String("log-file", "", "write client logs to this file")
}

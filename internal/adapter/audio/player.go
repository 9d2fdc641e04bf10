package audio

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/infrastructure/config"
)

const _downloadTimeout = 15 * time.Second

// Player fetches pronunciation clips and hands them to an external player.
// Failures are logged and never returned to the review session.
type Player struct {
	enabled     bool
	urlTemplate string
	command     []string
	cacheDir    string
	client      *http.Client
	logger      logrus.FieldLogger
	run         func(ctx context.Context, name string, args ...string) error
}

func NewPlayer(cfg config.AudioConfig, logger logrus.FieldLogger) *Player {
	return &Player{
		enabled:     cfg.Enabled && strings.TrimSpace(cfg.Player) != "",
		urlTemplate: cfg.URLTemplate,
		command:     strings.Fields(cfg.Player),
		cacheDir:    cfg.CacheDir,
		client:      &http.Client{Timeout: _downloadTimeout},
		logger:      logger,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Play starts playback in the background.
func (p *Player) Play(word string) {
	if !p.enabled || strings.TrimSpace(word) == "" {
		return
	}
	go func() {
		if err := p.PlayContext(context.Background(), word); err != nil {
			p.logger.WithError(err).WithField("word", word).Warn("pronunciation playback failed")
		}
	}()
}

// PlayContext downloads the clip for word if it is not cached yet and plays it.
func (p *Player) PlayContext(ctx context.Context, word string) error {
	if !p.enabled {
		return nil
	}
	path, err := p.fetch(ctx, word)
	if err != nil {
		return err
	}
	args := append(append([]string(nil), p.command[1:]...), path)
	if err := p.run(ctx, p.command[0], args...); err != nil {
		return fmt.Errorf("run %s: %w", p.command[0], err)
	}
	return nil
}

func (p *Player) fetch(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	sum := sha1.Sum([]byte(strings.ToLower(word)))
	path := filepath.Join(p.cacheDir, hex.EncodeToString(sum[:])+".mp3")
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return path, nil
	}
	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio cache: %w", err)
	}

	src := strings.ReplaceAll(p.urlTemplate, "{word}", url.QueryEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download pronunciation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download pronunciation: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(p.cacheDir, "clip-*.part")
	if err != nil {
		return "", err
	}
	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write pronunciation: %w", err)
	}
	if n == 0 {
		_ = os.Remove(tmp.Name())
		return "", errors.New("download pronunciation: empty body")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}

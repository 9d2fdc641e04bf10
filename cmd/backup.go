package cmd

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// backupOptions is the flag set shared by export and import, read from
// viper under prefix (backup.export or backup.import).
type backupOptions struct {
	path      string
	gzip      bool
	tables    []string
	batchSize int
}

func loadBackupOptions(prefix, pathKey string) backupOptions {
	opts := backupOptions{
		path:      viper.GetString(prefix + "." + pathKey),
		gzip:      viper.GetBool(prefix + ".gzip"),
		tables:    tablesFromConfig(prefix + ".tables"),
		batchSize: viper.GetInt(prefix + ".batch_size"),
	}
	if opts.path != "-" && strings.HasSuffix(strings.ToLower(opts.path), ".gz") {
		opts.gzip = true
	}
	return opts
}

func (o backupOptions) stdio() bool { return o.path == "-" }

func bindBackupFlags(cmd *cobra.Command, prefix, pathFlag, pathKey string) {
	bindFlagToViper(prefix+"."+pathKey, cmd.Flags().Lookup(pathFlag))
	bindFlagToViper(prefix+".gzip", cmd.Flags().Lookup("gzip"))
	bindFlagToViper(prefix+".tables", cmd.Flags().Lookup("tables"))
	bindFlagToViper(prefix+".batch_size", cmd.Flags().Lookup("batch-size"))
}

// closeStack closes in reverse order of registration.
type closeStack []func() error

func (s *closeStack) push(fn func() error) { *s = append(*s, fn) }

func (s closeStack) Close() error {
	var errs []error
	for _, fn := range lo.Reverse(append(closeStack(nil), s...)) {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

func openBackupSink(stdout io.Writer, opts backupOptions) (io.Writer, closeStack, error) {
	var stack closeStack
	w := stdout
	if !opts.stdio() {
		if err := os.MkdirAll(filepath.Dir(opts.path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output dir: %w", err)
		}
		file, err := os.Create(opts.path)
		if err != nil {
			return nil, nil, fmt.Errorf("create backup file: %w", err)
		}
		stack.push(file.Close)
		w = file
	}
	if opts.gzip {
		gz := gzip.NewWriter(w)
		stack.push(gz.Close)
		w = gz
	}
	return w, stack, nil
}

func openBackupSource(stdin io.Reader, opts backupOptions) (io.Reader, closeStack, error) {
	var stack closeStack
	r := stdin
	if !opts.stdio() {
		file, err := os.Open(filepath.Clean(opts.path))
		if err != nil {
			return nil, nil, fmt.Errorf("open backup file: %w", err)
		}
		stack.push(file.Close)
		r = file
	}
	if opts.gzip {
		gzr, err := gzip.NewReader(r)
		if err != nil {
			_ = stack.Close()
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		stack.push(gzr.Close)
		r = gzr
	}
	return r, stack, nil
}

func defaultExportFilename(gzipEnabled bool, now time.Time) string {
	name := "nekowords-backup-" + now.UTC().Format("20060102-150405") + ".jsonl"
	if gzipEnabled {
		name += ".gz"
	}
	return name
}

// cliProgress prints per-table export progress. Tables are exported one
// at a time, so it only tracks the current one.
type cliProgress struct {
	out     io.Writer
	table   string
	total   int
	done    int
	printed int
	step    int
}

func newCLIProgress(out io.Writer) *cliProgress {
	return &cliProgress{out: out}
}

func (p *cliProgress) StartTable(table string, total int) {
	p.table, p.total, p.done, p.printed = table, max(total, 0), 0, 0
	p.step = progressStep(p.total)
	fmt.Fprintf(p.out, "%s: %d rows to export\n", table, p.total)
}

func (p *cliProgress) Increment(table string, delta int) {
	if delta <= 0 || table != p.table {
		return
	}
	p.done += delta
	if p.done == p.total || p.done-p.printed >= p.step {
		fmt.Fprintf(p.out, "%s: %s\n", table, p.fraction())
		p.printed = p.done
	}
}

func (p *cliProgress) FinishTable(table string) {
	fmt.Fprintf(p.out, "%s: done, %s\n", table, p.fraction())
	p.table = ""
}

func (p *cliProgress) fraction() string {
	if p.total == 0 {
		return fmt.Sprintf("%d rows", p.done)
	}
	return fmt.Sprintf("%d/%d rows", p.done, p.total)
}

// importTally counts imported rows per table.
type importTally map[string]int

func (t importTally) StartTable(string, int)            {}
func (t importTally) Increment(table string, delta int) { t[table] += delta }
func (t importTally) FinishTable(string)                {}

func (t importTally) String() string {
	names := lo.Keys(t)
	slices.Sort(names)
	parts := lo.Map(names, func(name string, _ int) string { return fmt.Sprintf("%d %s", t[name], name) })
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

func progressStep(total int) int {
	if total <= 0 {
		return 1000
	}
	return lo.Clamp(total/20, 1, 1000)
}

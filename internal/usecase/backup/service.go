// Package backup exports and imports words and reviews as JSON lines.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/samber/lo"

	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/database/migrate"
)

const (
	defaultBatchSize = 512
	formatVersion    = 1
)

var errNoTablesSelected = errors.New("backup: no tables selected")

type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

type Service struct {
	db         *database.DB
	batchSize  int
	tables     []*schema.Table
	tableIndex map[string]*schema.Table
	schemaHash string
	clock      func() time.Time
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService constructs a backup service over an open database.
// Tables are processed parents first so imports satisfy foreign keys.
func NewService(db *database.DB, opts ...Option) *Service {
	tableIndex := make(map[string]*schema.Table, len(migrate.Tables))
	for _, tbl := range migrate.Tables {
		tableIndex[tbl.Name] = tbl
	}
	svc := &Service{
		db:         db,
		batchSize:  defaultBatchSize,
		tables:     migrate.Tables,
		tableIndex: tableIndex,
		schemaHash: computeSchemaHash(migrate.Tables),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts export to the provided table names.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.tables = append(cfg.tables, tables...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithImportTables restricts import to the provided table names.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		cfg.tables = append(cfg.tables, tables...)
	}
}

type record struct {
	Type       string         `json:"type"`
	Version    int            `json:"version,omitempty"`
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	SchemaHash string         `json:"schema_hash,omitempty"`
	Tables     []string       `json:"tables,omitempty"`
	RowCounts  map[string]int `json:"row_counts,omitempty"`
	Payload    any            `json:"payload,omitempty"`
}

// WithImportReporter receives one Increment per imported row.
func WithImportReporter(reporter ProgressReporter) ImportOption {
	return func(cfg *importConfig) {
		cfg.reporter = reporter
	}
}

type rawRecord struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	SchemaHash string          `json:"schema_hash"`
	Payload    json.RawMessage `json:"payload"`
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	counts := make(map[string]int, len(tables))
	for _, tbl := range tables {
		count, err := s.countTableRows(ctx, tbl.Name)
		if err != nil {
			return fmt.Errorf("count table %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = count
	}

	writer := bufio.NewWriter(w)
	now := s.clock().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		SchemaHash: s.schemaHash,
		Tables:     lo.Map(tables, func(t *schema.Table, _ int) string { return t.Name }),
		RowCounts:  counts,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	for _, tbl := range tables {
		reporter.StartTable(tbl.Name, counts[tbl.Name])
		if err := s.exportTable(ctx, tbl, reporter, writer); err != nil {
			return err
		}
		reporter.FinishTable(tbl.Name)
	}
	return writer.Flush()
}

// Import upserts every row in r inside one transaction. The meta record
// must come first.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	tableFilter := lo.KeyBy(tables, func(t *schema.Table) string { return t.Name })
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	br := bufio.NewReader(r)
	metaSeen := false
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			if rec.Type == "meta" {
				if rec.Version != formatVersion {
					return fmt.Errorf("backup: unsupported format version %d", rec.Version)
				}
				if rec.SchemaHash != "" && rec.SchemaHash != s.schemaHash {
					return errors.New("backup: schema does not match this version")
				}
				metaSeen = true
			} else {
				if !metaSeen {
					return errors.New("backup: missing meta record")
				}
				tbl, ok := tableFilter[rec.Type]
				if ok {
					if len(rec.Payload) == 0 {
						return fmt.Errorf("backup: missing payload for table %s", rec.Type)
					}
					if err := s.importRow(ctx, tx, tbl, rec.Payload); err != nil {
						return err
					}
					reporter.Increment(tbl.Name, 1)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return errors.New("backup: missing meta record")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	commit = true
	return nil
}

func (s *Service) exportTable(ctx context.Context, table *schema.Table, reporter ProgressReporter, w io.Writer) error {
	for offset := 0; ; offset += s.batchSize {
		n, err := s.exportPage(ctx, table, offset, reporter, w)
		if err != nil {
			return err
		}
		if n < s.batchSize {
			return nil
		}
	}
}

// exportPage writes one batch of rows ordered by primary key and returns
// how many rows it wrote.
func (s *Service) exportPage(ctx context.Context, table *schema.Table, offset int, reporter ProgressReporter, w io.Writer) (int, error) {
	columns := columnNames(table)
	b := entsql.Dialect(s.db.Dialect)
	query, args := b.Select(columns...).
		From(b.Table(table.Name)).
		OrderBy(lo.Map(table.PrimaryKey, func(c *schema.Column, _ int) string { return c.Name })...).
		Limit(s.batchSize).
		Offset(offset).
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", table.Name, err)
	}
	defer rows.Close()

	written := 0
	values := make([]any, len(columns))
	dest := lo.Map(values, func(_ any, i int) any { return &values[i] })
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return written, fmt.Errorf("scan %s: %w", table.Name, err)
		}
		row, err := convertRow(table, columns, values)
		if err != nil {
			return written, err
		}
		if err := writeRecord(w, record{Type: table.Name, Payload: row}); err != nil {
			return written, err
		}
		reporter.Increment(table.Name, 1)
		written++
	}
	if err := rows.Err(); err != nil {
		return written, fmt.Errorf("iterate %s: %w", table.Name, err)
	}
	return written, nil
}

func (s *Service) importRow(ctx context.Context, tx *sql.Tx, table *schema.Table, payload json.RawMessage) error {
	values, err := decodePayload(table, payload)
	if err != nil {
		return fmt.Errorf("decode payload for %s: %w", table.Name, err)
	}

	cols := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, col := range table.Columns {
		val, ok := values[col.Name]
		if !ok {
			continue
		}
		if val == nil && !col.Nullable {
			def, ok := defaultValueForColumn(col)
			if !ok {
				return fmt.Errorf("backup: missing required value for %s.%s", table.Name, col.Name)
			}
			val = def
		}
		cols = append(cols, col.Name)
		args = append(args, val)
	}
	if len(cols) == 0 {
		return nil
	}

	conflict := lo.Map(table.PrimaryKey, func(c *schema.Column, _ int) string { return c.Name })
	query, qargs := entsql.Dialect(s.db.Dialect).
		Insert(table.Name).
		Columns(cols...).
		Values(args...).
		OnConflict(entsql.ConflictColumns(conflict...), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, qargs...); err != nil {
		return fmt.Errorf("insert into %s: %w", table.Name, err)
	}
	return nil
}

func (s *Service) selectTables(requested []string) ([]*schema.Table, error) {
	if len(requested) == 0 {
		return s.tables, nil
	}
	set := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		n := strings.TrimSpace(strings.ToLower(name))
		if n == "" {
			continue
		}
		if _, ok := s.tableIndex[n]; !ok {
			return nil, fmt.Errorf("backup: unsupported table %q", name)
		}
		set[n] = struct{}{}
	}
	if len(set) == 0 {
		return nil, errNoTablesSelected
	}
	return lo.Filter(s.tables, func(t *schema.Table, _ int) bool {
		_, ok := set[t.Name]
		return ok
	}), nil
}

func (s *Service) countTableRows(ctx context.Context, table string) (int, error) {
	b := entsql.Dialect(s.db.Dialect)
	query, args := b.Select(entsql.Count("*")).From(b.Table(table)).Query()
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func convertRow(table *schema.Table, columns []string, values []any) (map[string]any, error) {
	result := make(map[string]any, len(columns))
	for idx, name := range columns {
		col := findColumn(table, name)
		if col == nil {
			return nil, fmt.Errorf("column %s not found in table %s", name, table.Name)
		}
		val, err := convertDBValue(col, values[idx])
		if err != nil {
			return nil, fmt.Errorf("convert %s.%s: %w", table.Name, name, err)
		}
		result[name] = val
	}
	return result, nil
}

func convertDBValue(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case []byte:
		if col.Type == field.TypeJSON {
			return json.RawMessage(append([]byte(nil), v...)), nil
		}
		return string(v), nil
	case string:
		if col.Type == field.TypeJSON {
			return json.RawMessage(v), nil
		}
		if col.Type == field.TypeTime {
			return v, nil
		}
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	}

	switch col.Type {
	case field.TypeInt, field.TypeInt64:
		return toInt64(value)
	case field.TypeFloat64:
		return toFloat64(value)
	default:
		return value, nil
	}
}

func decodePayload(table *schema.Table, payload json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	result := make(map[string]any, len(raw))
	for key, val := range raw {
		col := findColumn(table, key)
		if col == nil {
			return nil, fmt.Errorf("column %s not found in table %s", key, table.Name)
		}
		converted, err := convertJSONValue(col, val)
		if err != nil {
			return nil, fmt.Errorf("convert %s.%s: %w", table.Name, key, err)
		}
		result[key] = converted
	}
	return result, nil
}

func convertJSONValue(col *schema.Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch col.Type {
	case field.TypeInt, field.TypeInt64:
		return toInt64(value)
	case field.TypeFloat64:
		return toFloat64(value)
	case field.TypeTime:
		str, ok := value.(string)
		if !ok || str == "" {
			return nil, fmt.Errorf("invalid time value %v", value)
		}
		t, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	case field.TypeJSON:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return value, nil
	}
}

func defaultValueForColumn(col *schema.Column) (any, bool) {
	switch col.Type {
	case field.TypeJSON:
		return []byte("[]"), true
	case field.TypeString:
		return "", true
	case field.TypeInt, field.TypeInt64, field.TypeFloat64:
		return 0, true
	default:
		return nil, false
	}
}

func columnNames(table *schema.Table) []string {
	return lo.Map(table.Columns, func(c *schema.Column, _ int) string { return c.Name })
}

func findColumn(table *schema.Table, name string) *schema.Column {
	col, _ := lo.Find(table.Columns, func(c *schema.Column) bool { return c.Name == name })
	return col
}

func computeSchemaHash(tables []*schema.Table) string {
	builder := &strings.Builder{}
	for _, tbl := range tables {
		builder.WriteString(tbl.Name)
		builder.WriteString("|cols:")
		for _, col := range tbl.Columns {
			builder.WriteString(fmt.Sprintf("%s:%d:%t;", col.Name, col.Type, col.Nullable))
		}
		builder.WriteString("|pk:")
		for _, pk := range tbl.PrimaryKey {
			builder.WriteString(pk.Name)
			builder.WriteByte(',')
		}
		builder.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(builder.String()))
	return fmt.Sprintf("%x", sum[:])
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported int type %T", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported float type %T", value)
	}
}

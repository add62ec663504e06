package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/fileutil"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/model"
)

//go:embed migrations
var embedMigrations embed.FS

const pingTimeout = 5 * time.Second

// SQLStore keeps records in a database/sql database.
type SQLStore struct {
	db           *sql.DB
	dialect      goose.Dialect
	artifactsDir string
}

var _ Store = (*SQLStore)(nil)

// Open returns the store selected by cfg. When postgres is configured but
// unreachable, it logs a warning and falls back to SQLite at cfg.SQLitePath.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch strings.ToLower(cfg.Driver) {
	case "", config.DriverNone:
		return NopStore{}, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.DSN, cfg.ArtifactsDir)
		if err == nil {
			logger.Info("store connected", "driver", config.DriverPostgres)
			return s, nil
		}
		logger.Warn("postgres unavailable, falling back to sqlite", "error", err, "path", cfg.SQLitePath)
	}

	s, err := OpenSQLite(ctx, sqlitePath(cfg), cfg.ArtifactsDir)
	if err != nil {
		return nil, err
	}
	logger.Info("store connected", "driver", config.DriverSQLite, "path", sqlitePath(cfg))
	return s, nil
}

func sqlitePath(cfg config.StorageConfig) string {
	if strings.ToLower(cfg.Driver) == config.DriverSQLite && cfg.DSN != "" {
		return cfg.DSN
	}
	if cfg.SQLitePath != "" {
		return cfg.SQLitePath
	}
	return config.DefaultSQLitePath
}

// OpenPostgres connects through the pgx stdlib driver and applies migrations.
func OpenPostgres(ctx context.Context, dsn, artifactsDir string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %v", ErrStore, err)
	}
	return newSQLStore(ctx, db, goose.DialectPostgres, "migrations/postgres", artifactsDir)
}

// Ping checks that a postgres server accepts dsn, without migrating.
func Ping(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("%w: open postgres: %v", ErrStore, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping postgres: %v", ErrStore, err)
	}
	return nil
}

// OpenSQLite opens (or creates) the database file at path and applies
// migrations.
func OpenSQLite(ctx context.Context, path, artifactsDir string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %v", ErrStore, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", ErrStore, err)
	}
	return newSQLStore(ctx, db, goose.DialectSQLite3, "migrations/sqlite", artifactsDir)
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir, artifactsDir string) (*SQLStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrStore, err)
	}

	if err := migrate(ctx, db, dialect, dir); err != nil {
		db.Close()
		return nil, err
	}

	if artifactsDir == "" {
		artifactsDir = config.DefaultArtifactsDir
	}
	return &SQLStore{db: db, dialect: dialect, artifactsDir: artifactsDir}, nil
}

// migrate runs the embedded goose migrations for one dialect.
func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("%w: migrations: %v", ErrStore, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("%w: goose provider: %v", ErrStore, err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%w: goose up: %v", ErrStore, err)
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != goose.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save writes the artifact (if any) and inserts the record.
func (s *SQLStore) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.Owner == "" {
		return Record{}, ErrInvalidOwner
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if len(rec.Model) == 0 {
		rec.Model = []byte("{}")
	} else if _, err := model.FromJSON(rec.Model); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	if len(rec.Artifact) > 0 {
		path, err := s.writeArtifact(rec.ID, rec.OriginalFilename, rec.OutputKind, rec.Artifact)
		if err != nil {
			return Record{}, err
		}
		rec.ArtifactPath = path
	}
	rec.Artifact = nil

	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO documents
		(id, owner, original_filename, output_kind, model, artifact_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Owner, rec.OriginalFilename, rec.OutputKind, string(rec.Model), rec.ArtifactPath, rec.CreatedAt)
	if err != nil {
		if rec.ArtifactPath != "" {
			_ = os.Remove(rec.ArtifactPath)
		}
		return Record{}, fmt.Errorf("%w: insert: %v", ErrStore, err)
	}
	return rec, nil
}

// writeArtifact stores data as <artifactsDir>/<id>_<stem>_report.<kind>.
func (s *SQLStore) writeArtifact(id, source, kind string, data []byte) (string, error) {
	if err := os.MkdirAll(s.artifactsDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating artifacts directory: %v", ErrStore, err)
	}
	name := fileutil.SafeName(fileutil.ReportName(source, kind))
	path := filepath.Join(s.artifactsDir, id+"_"+name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing artifact: %v", ErrStore, err)
	}
	return path, nil
}

const selectColumns = `SELECT id, owner, original_filename, output_kind, model, artifact_path, created_at FROM documents`

// List returns the owner's records, newest first.
func (s *SQLStore) List(ctx context.Context, owner string) ([]Record, error) {
	if owner == "" {
		return nil, ErrInvalidOwner
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(selectColumns+` WHERE owner = ? ORDER BY created_at DESC, id`), owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	return records, nil
}

// Get returns one record by id.
func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectColumns+` WHERE id = ?`), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// Delete removes the owner's record and its artifact. A record owned by
// someone else reports ErrNotFound.
func (s *SQLStore) Delete(ctx context.Context, owner, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Owner != owner {
		return ErrNotFound
	}

	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM documents WHERE id = ? AND owner = ?`), id, owner); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrStore, err)
	}
	if rec.ArtifactPath != "" {
		if err := os.Remove(rec.ArtifactPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: removing artifact: %v", ErrStore, err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var model string
	if err := sc.Scan(&rec.ID, &rec.Owner, &rec.OriginalFilename, &rec.OutputKind, &model, &rec.ArtifactPath, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: scan: %v", ErrStore, err)
	}
	rec.Model = []byte(model)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

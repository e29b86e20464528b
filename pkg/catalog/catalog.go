// Package catalog mirrors the materials index into SQLite for full-text search.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

// Catalog is a SQLite copy of one index document
type Catalog struct {
	db     *sql.DB
	useFTS bool
}

// Open opens (or creates) the catalog database at dbPath
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	c := &Catalog{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	return c, nil
}

// init creates the database schema
func (c *Catalog) init() error {
	c.useFTS = c.checkFTS5Support()

	schema := `
	CREATE TABLE IF NOT EXISTS materials (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL,
		year TEXT NOT NULL,
		date TEXT NOT NULL,
		tags TEXT NOT NULL,
		description TEXT NOT NULL,
		url TEXT NOT NULL,
		preview TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS material_tags (
		seq INTEGER NOT NULL,
		tag TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_meta (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_materials_type ON materials(type);
	CREATE INDEX IF NOT EXISTS idx_materials_year ON materials(year);
	CREATE INDEX IF NOT EXISTS idx_material_tags_tag ON material_tags(tag);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return err
	}

	if c.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS materials_fts USING fts5(
			seq UNINDEXED,
			title,
			tags,
			description,
			tokenize = 'porter unicode61'
		);
		`

		if _, err := c.db.Exec(ftsSchema); err != nil {
			// Fall back to LIKE queries
			c.useFTS = false
		}
	}

	return nil
}

// checkFTS5Support checks if the FTS5 module is compiled in
func (c *Catalog) checkFTS5Support() bool {
	_, err := c.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_probe USING fts5(content)")
	if err != nil {
		return false
	}

	_, _ = c.db.Exec("DROP TABLE IF EXISTS fts5_probe")
	return true
}

// UsesFTS reports whether searches run through FTS5
func (c *Catalog) UsesFTS() bool {
	return c.useFTS
}

// Replace swaps the catalog contents for doc in a single transaction. Items
// are keyed by their position, so duplicate ids are stored as-is.
func (c *Catalog) Replace(ctx context.Context, doc *models.IndexDocument) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range []string{"DELETE FROM materials", "DELETE FROM material_tags"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if c.useFTS {
		if _, err := tx.ExecContext(ctx, "DELETE FROM materials_fts"); err != nil {
			return err
		}
	}

	for seq, item := range doc.Items {
		tagsJSON, err := json.Marshal(nonNil(item.Tags))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO materials (seq, id, title, type, year, date, tags, description, url, preview)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, seq, item.ID, item.Title, item.Type, item.Year, item.Date, string(tagsJSON),
			item.Description, item.URL, item.Preview)
		if err != nil {
			return err
		}

		for _, tag := range item.Tags {
			if _, err := tx.ExecContext(ctx, "INSERT INTO material_tags (seq, tag) VALUES (?, ?)", seq, tag); err != nil {
				return err
			}
		}

		if c.useFTS {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO materials_fts (seq, title, tags, description)
				VALUES (?, ?, ?, ?)
			`, seq, item.Title, strings.Join(item.Tags, " "), item.Description)
			if err != nil {
				return err
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_meta (key, value) VALUES ('generated_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, doc.Meta.GeneratedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Options for searching
type Options struct {
	Tag   string
	Year  string
	Type  string
	Limit int
}

// Search finds items matching query and the filters in opts. An empty query
// lists everything in index order.
func (c *Catalog) Search(ctx context.Context, query string, opts *Options) ([]models.MaterialItem, error) {
	if opts == nil {
		opts = &Options{Limit: 50}
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	query = strings.TrimSpace(query)
	if c.useFTS && query != "" {
		return c.searchWithFTS(ctx, query, opts)
	}
	return c.searchWithoutFTS(ctx, query, opts)
}

func filterConditions(opts *Options) ([]string, []any) {
	var conditions []string
	var args []any

	if opts.Type != "" {
		conditions = append(conditions, "m.type = ?")
		args = append(args, strings.ToUpper(opts.Type))
	}
	if opts.Year != "" {
		conditions = append(conditions, "m.year = ?")
		args = append(args, opts.Year)
	}
	if opts.Tag != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM material_tags t WHERE t.seq = m.seq AND t.tag = ?)")
		args = append(args, opts.Tag)
	}

	return conditions, args
}

const selectColumns = `m.id, m.title, m.type, m.year, m.date, m.tags, m.description, m.url, m.preview`

// searchWithFTS performs search using FTS5
func (c *Catalog) searchWithFTS(ctx context.Context, query string, opts *Options) ([]models.MaterialItem, error) {
	conditions, args := filterConditions(opts)
	conditions = append(conditions, "materials_fts MATCH ?")
	args = append(args, ftsQuery(query), opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM materials_fts f
		JOIN materials m ON f.seq = m.seq
		WHERE %s
		ORDER BY rank, m.seq
		LIMIT ?
	`, selectColumns, strings.Join(conditions, " AND "))

	return c.query(ctx, searchQuery, args...)
}

// searchWithoutFTS performs search using LIKE queries on the materials table
func (c *Catalog) searchWithoutFTS(ctx context.Context, query string, opts *Options) ([]models.MaterialItem, error) {
	conditions, args := filterConditions(opts)

	if query != "" {
		pattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
		conditions = append(conditions, "(m.title LIKE ? OR m.tags LIKE ? OR m.description LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM materials m
		%s
		ORDER BY m.seq
		LIMIT ?
	`, selectColumns, whereClause)
	args = append(args, opts.Limit)

	return c.query(ctx, searchQuery, args...)
}

func (c *Catalog) query(ctx context.Context, q string, args ...any) ([]models.MaterialItem, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.MaterialItem{}
	for rows.Next() {
		var item models.MaterialItem
		var tags string

		err := rows.Scan(
			&item.ID, &item.Title, &item.Type, &item.Year, &item.Date, &tags,
			&item.Description, &item.URL, &item.Preview,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", item.ID, err)
		}

		results = append(results, item)
	}

	return results, rows.Err()
}

// Count returns the number of stored items
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM materials").Scan(&n)
	return n, err
}

// GeneratedAt returns meta.generated_at of the stored document
func (c *Catalog) GeneratedAt(ctx context.Context) (string, error) {
	var v string
	err := c.db.QueryRowContext(ctx, "SELECT value FROM catalog_meta WHERE key = 'generated_at'").Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

// Close closes the catalog
func (c *Catalog) Close() error {
	return c.db.Close()
}

// ftsQuery quotes every term so punctuation in user input is not parsed as
// FTS5 syntax. Terms are ANDed.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

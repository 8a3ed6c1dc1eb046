// Package storage executes resolved listing queries against SQLite. It is
// the only place query.Builder values are translated into SQL; everything
// user-controlled is bound as a parameter, and attribute-store keys only
// reach SQL after core.SanitizeKey.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/db"
	"github.com/jmontes/listry/pkg/query"
)

// Store owns the listing database connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the listing database and applies
// pending migrations.
func Open(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if err := db.NewMigrator(conn).Migrate(); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// StoreListing inserts or replaces a listing and its attribute rows. Values
// that parse as numbers also populate num_value so numeric range filters and
// the views sort can compare natively.
func (s *Store) StoreListing(l core.Listing) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				fmt.Printf("Warning: failed to rollback transaction: %v\n", err)
			}
		}
	}()

	status := l.Status
	if status == "" {
		status = core.StatusPublished
	}
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO listings (id, title, content, excerpt, category, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Title, l.Content, l.Excerpt, l.Category, status, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing listing %s: %w", l.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM listing_meta WHERE listing_id = ?", l.ID); err != nil {
		return fmt.Errorf("clearing meta for %s: %w", l.ID, err)
	}

	for key, value := range l.Meta {
		clean := core.MetaKey(key)
		if clean == "" {
			continue
		}
		var numValue any
		if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			numValue = n
		}
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO listing_meta (listing_id, key, value, num_value)
			VALUES (?, ?, ?, ?)
		`, l.ID, clean, value, numValue)
		if err != nil {
			return fmt.Errorf("storing meta %s for %s: %w", clean, l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing listing %s: %w", l.ID, err)
	}
	committed = true
	return nil
}

// Execute runs the resolved query and returns the page of matching listings
// plus whether more pages exist. Each qualifying listing appears exactly
// once: attribute matches are expressed as EXISTS conditions, never joins.
func (s *Store) Execute(b *query.Builder) ([]core.Listing, bool, error) {
	sqlQuery, args := buildSQL(b)

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying listings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	var listings []core.Listing
	for rows.Next() {
		var l core.Listing
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Title, &l.Content, &l.Excerpt, &l.Category, &l.Status, &createdAt); err != nil {
			return nil, false, fmt.Errorf("scanning listing row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			l.CreatedAt = parsed
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasMore := false
	if len(listings) > b.PerPage() {
		hasMore = true
		listings = listings[:b.PerPage()]
	}

	if err := s.loadMeta(listings); err != nil {
		return nil, false, err
	}
	return listings, hasMore, nil
}

// loadMeta attaches attribute rows to the returned page.
func (s *Store) loadMeta(listings []core.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	index := make(map[string]int, len(listings))
	placeholders := make([]string, 0, len(listings))
	args := make([]any, 0, len(listings))
	for i, l := range listings {
		index[l.ID] = i
		placeholders = append(placeholders, "?")
		args = append(args, l.ID)
	}

	rows, err := s.db.Query(`
		SELECT listing_id, key, value FROM listing_meta
		WHERE listing_id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return fmt.Errorf("querying listing meta: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			fmt.Printf("Warning: failed to close rows: %v\n", err)
		}
	}()

	for rows.Next() {
		var listingID, key, value string
		if err := rows.Scan(&listingID, &key, &value); err != nil {
			return fmt.Errorf("scanning meta row: %w", err)
		}
		i, ok := index[listingID]
		if !ok {
			continue
		}
		if listings[i].Meta == nil {
			listings[i].Meta = make(map[string]string)
		}
		listings[i].Meta[key] = value
	}
	return rows.Err()
}

// buildSQL translates a resolved builder into a parameterized statement.
func buildSQL(b *query.Builder) (string, []any) {
	var conds []string
	var args []any

	conds = append(conds, "l.status = ?")
	args = append(args, core.StatusPublished)

	if category := b.Scope().Category; category != "" {
		conds = append(conds, "l.category = ?")
		args = append(args, category)
	}

	for _, clause := range b.Clauses() {
		cond, clauseArgs := attributeCondition(clause)
		if cond == "" {
			continue
		}
		conds = append(conds, cond)
		args = append(args, clauseArgs...)
	}

	if term := b.SearchTerm(); term != "" {
		cond, searchArgs := keywordCondition(term, b.SearchMetaKeys())
		conds = append(conds, cond)
		args = append(args, searchArgs...)
	}

	orderClause, orderArgs := orderBy(b.Sort())
	args = append(args, orderArgs...)

	// Fetch one extra row to detect further pages.
	limit := b.PerPage() + 1
	offset := (b.Page() - 1) * b.PerPage()
	args = append(args, limit, offset)

	sqlQuery := `
		SELECT l.id, l.title, l.content, l.excerpt, l.category, l.status, l.created_at
		FROM listings l
		WHERE ` + strings.Join(conds, "\n\t\t  AND ") + `
		` + orderClause + `
		LIMIT ? OFFSET ?`
	return sqlQuery, args
}

// attributeCondition renders one attribute clause as an EXISTS semi-join on
// the meta table. Keys are re-sanitized here as a last line of defense; a key
// that sanitizes away drops the clause entirely.
func attributeCondition(c query.AttributeClause) (string, []any) {
	if core.SanitizeKey(c.Key) != c.Key || c.Key == "" {
		return "", nil
	}

	column := "m.value"
	toArg := func(raw string) any { return raw }
	if c.Kind == query.KindNumeric {
		column = "m.num_value"
		toArg = func(raw string) any {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil
			}
			return n
		}
	}

	var cmp string
	args := []any{c.Key}
	switch c.Compare {
	case query.CompareEq:
		cmp = column + " = ?"
		args = append(args, toArg(c.Value))
	case query.CompareGte:
		cmp = column + " >= ?"
		args = append(args, toArg(c.Value))
	case query.CompareLte:
		cmp = column + " <= ?"
		args = append(args, toArg(c.Value))
	case query.CompareBetween:
		cmp = column + " BETWEEN ? AND ?"
		args = append(args, toArg(c.Value), toArg(c.Value2))
	case query.CompareIn:
		if len(c.Values) == 0 {
			return "", nil
		}
		placeholders := make([]string, len(c.Values))
		for i, v := range c.Values {
			placeholders[i] = "?"
			args = append(args, v)
		}
		cmp = column + " IN (" + strings.Join(placeholders, ", ") + ")"
	default:
		return "", nil
	}

	return "EXISTS (SELECT 1 FROM listing_meta m WHERE m.listing_id = l.id AND m.key = ? AND " + cmp + ")", args
}

// keywordCondition matches the term against the native columns OR, via an
// existence condition, against any allowlisted attribute key. The semi-join
// shape is load-bearing: an outer join over listing_meta would return one
// row per matching attribute row and duplicate listings in the result.
func keywordCondition(term string, metaKeys []string) (string, []any) {
	pattern := "%" + escapeLike(term) + "%"

	parts := []string{
		"l.title LIKE ? ESCAPE '\\'",
		"l.content LIKE ? ESCAPE '\\'",
		"l.excerpt LIKE ? ESCAPE '\\'",
	}
	args := []any{pattern, pattern, pattern}

	var keys []string
	for _, key := range metaKeys {
		if core.SanitizeKey(key) == key && key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		placeholders := make([]string, len(keys))
		for i, key := range keys {
			placeholders[i] = "?"
			args = append(args, key)
		}
		args = append(args, pattern)
		parts = append(parts,
			"EXISTS (SELECT 1 FROM listing_meta m WHERE m.listing_id = l.id AND m.key IN ("+
				strings.Join(placeholders, ", ")+") AND m.value LIKE ? ESCAPE '\\')")
	}

	return "(" + strings.Join(parts, " OR ") + ")", args
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// orderBy renders the ORDER BY clause. Sort fields come from a fixed enum
// and the views meta key from the sanitized allowlist, so no user input can
// reach this identifier position.
func orderBy(s query.Sort) (string, []any) {
	dir := "DESC"
	if s.Dir == query.Asc {
		dir = "ASC"
	}

	switch s.Field {
	case query.SortTitle:
		return "ORDER BY l.title COLLATE NOCASE " + dir + ", l.created_at DESC", nil
	case query.SortViews:
		key := core.SanitizeKey(s.MetaKey)
		if key == "" {
			return "ORDER BY l.created_at DESC", nil
		}
		return "ORDER BY (SELECT m.num_value FROM listing_meta m WHERE m.listing_id = l.id AND m.key = ?) " +
			dir + ", l.created_at DESC", []any{key}
	case query.SortRandom:
		return "ORDER BY random()", nil
	default:
		return "ORDER BY l.created_at " + dir + ", l.id " + dir, nil
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that a referenced user or tweet does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite database holding users, tweets and the follow graph.
type DB struct{ sql *sql.DB }

// Open opens (or creates) the database at path and ensures the schema exists.
// ":memory:" is accepted for tests.
func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: in-memory databases are per connection and the client is single-session anyway
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

// Ping checks that the database is still reachable.
func (d *DB) Ping(ctx context.Context) error { return d.sql.PingContext(ctx) }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS users (
	  usr INTEGER PRIMARY KEY AUTOINCREMENT,
	  pwd TEXT NOT NULL,
	  name TEXT NOT NULL,
	  email TEXT,
	  city TEXT,
	  timezone TEXT
	);
	CREATE TABLE IF NOT EXISTS tweets (
	  tid INTEGER PRIMARY KEY AUTOINCREMENT,
	  writer INTEGER NOT NULL REFERENCES users(usr),
	  tdate INTEGER NOT NULL,
	  text TEXT NOT NULL,
	  replyto INTEGER REFERENCES tweets(tid)
	);
	CREATE INDEX IF NOT EXISTS idx_tweets_writer ON tweets(writer);
	CREATE INDEX IF NOT EXISTS idx_tweets_replyto ON tweets(replyto);
	CREATE TABLE IF NOT EXISTS retweets (
	  usr INTEGER NOT NULL REFERENCES users(usr),
	  tid INTEGER NOT NULL REFERENCES tweets(tid),
	  rdate INTEGER NOT NULL,
	  PRIMARY KEY (usr, tid)
	);
	CREATE TABLE IF NOT EXISTS follows (
	  flwer INTEGER NOT NULL REFERENCES users(usr),
	  flwee INTEGER NOT NULL REFERENCES users(usr),
	  start_date INTEGER NOT NULL,
	  PRIMARY KEY (flwer, flwee)
	);
	CREATE INDEX IF NOT EXISTS idx_follows_flwee ON follows(flwee);
	CREATE TABLE IF NOT EXISTS hashtags (
	  term TEXT PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS mentions (
	  tid INTEGER NOT NULL REFERENCES tweets(tid),
	  term TEXT NOT NULL REFERENCES hashtags(term)
	);
	CREATE INDEX IF NOT EXISTS idx_mentions_tid ON mentions(tid);
	CREATE INDEX IF NOT EXISTS idx_mentions_term ON mentions(term);
	`)
	return err
}

// withTx runs fn in a transaction, committing on success.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func count(ctx context.Context, q *sql.DB, query string, args ...any) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func unix(ts int64) time.Time { return time.Unix(ts, 0).UTC() }

func replyPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func nullable(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"sqltweet/internal/model"
)

// InsertTweet stores a tweet with its hashtag mentions in one transaction.
// Terms are stored as given; a repeated term yields one mention row per occurrence.
func (d *DB) InsertTweet(ctx context.Context, t model.Tweet, terms []string) (int64, error) {
	var tid int64
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO tweets(writer, tdate, text, replyto) VALUES(?,?,?,?)`,
			t.Writer, t.Date.Unix(), t.Text, nullable(t.ReplyTo))
		if err != nil {
			return err
		}
		if tid, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, term := range terms {
			known, err := exists(ctx, tx, `SELECT COUNT(*) FROM hashtags WHERE term=?`, term)
			if err != nil {
				return err
			}
			if !known {
				if _, err := tx.ExecContext(ctx, `INSERT INTO hashtags(term) VALUES(?)`, term); err != nil {
					return err
				}
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO mentions(tid, term) VALUES(?,?)`, tid, term); err != nil {
				return err
			}
		}
		return nil
	})
	return tid, err
}

func (d *DB) TweetByID(ctx context.Context, tid int64) (model.Tweet, error) {
	var t model.Tweet
	var ts int64
	var reply sql.NullInt64
	err := d.sql.QueryRowContext(ctx, `SELECT tid, writer, tdate, text, replyto FROM tweets WHERE tid=?`, tid).
		Scan(&t.ID, &t.Writer, &ts, &t.Text, &reply)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("tweet %d: %w", tid, ErrNotFound)
	}
	if err != nil {
		return t, err
	}
	t.Date, t.ReplyTo = unix(ts), replyPtr(reply)
	return t, nil
}

// TweetStats resolves reply count, retweet count and writer name with independent lookups.
func (d *DB) TweetStats(ctx context.Context, tid int64) (model.TweetStats, error) {
	var st model.TweetStats
	err := d.sql.QueryRowContext(ctx, `SELECT u.name FROM tweets t JOIN users u ON t.writer = u.usr WHERE t.tid=?`, tid).
		Scan(&st.WriterName)
	if errors.Is(err, sql.ErrNoRows) {
		return st, fmt.Errorf("tweet %d: %w", tid, ErrNotFound)
	}
	if err != nil {
		return st, err
	}
	if st.Replies, err = count(ctx, d.sql, `SELECT COUNT(*) FROM tweets WHERE replyto=?`, tid); err != nil {
		return st, err
	}
	st.Retweets, err = count(ctx, d.sql, `SELECT COUNT(*) FROM retweets WHERE tid=?`, tid)
	return st, err
}

// SearchTweets runs a tweet query whose columns are tid, writer, tdate, text, replyto.
func (d *DB) SearchTweets(ctx context.Context, q sq.SelectBuilder) ([]model.Tweet, error) {
	rows, err := q.RunWith(d.sql).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return scanTweets(rows)
}

// AuthorTweets returns usr's non-reply tweets, newest first. limit <= 0 returns all.
func (d *DB) AuthorTweets(ctx context.Context, usr int64, limit int) ([]model.Tweet, error) {
	q := sq.Select("tid", "writer", "tdate", "text", "replyto").
		From("tweets").
		Where(sq.Eq{"writer": usr, "replyto": nil}).
		OrderBy("tdate DESC", "tid DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return d.SearchTweets(ctx, q)
}

// FolloweeTweets returns tweets written by anyone usr follows.
func (d *DB) FolloweeTweets(ctx context.Context, usr int64) ([]model.Tweet, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT t.tid, t.writer, t.tdate, t.text, t.replyto
	FROM tweets t JOIN follows f ON t.writer = f.flwee
	WHERE f.flwer=?`, usr)
	if err != nil {
		return nil, err
	}
	return scanTweets(rows)
}

// FolloweeRetweets returns retweets made by anyone usr follows.
func (d *DB) FolloweeRetweets(ctx context.Context, usr int64) ([]model.Retweet, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT r.usr, r.rdate, t.tid, t.writer, t.tdate, t.text, t.replyto
	FROM retweets r
	JOIN tweets t ON r.tid = t.tid
	JOIN follows f ON r.usr = f.flwee
	WHERE f.flwer=?`, usr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Retweet
	for rows.Next() {
		var r model.Retweet
		var rdate, tdate int64
		var reply sql.NullInt64
		if err := rows.Scan(&r.User, &rdate, &r.Tweet.ID, &r.Tweet.Writer, &tdate, &r.Tweet.Text, &reply); err != nil {
			return nil, err
		}
		r.Date, r.Tweet.Date, r.Tweet.ReplyTo = unix(rdate), unix(tdate), replyPtr(reply)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Retweet records usr's retweet of tid unless one already exists.
// It reports whether a row was created.
func (d *DB) Retweet(ctx context.Context, usr, tid int64, at time.Time) (bool, error) {
	created := false
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT COUNT(*) FROM tweets WHERE tid=?`, tid)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("tweet %d: %w", tid, ErrNotFound)
		}
		dup, err := exists(ctx, tx, `SELECT COUNT(*) FROM retweets WHERE usr=? AND tid=?`, usr, tid)
		if err != nil || dup {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO retweets(usr, tid, rdate) VALUES(?,?,?)`, usr, tid, at.Unix()); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// Follow records a follow edge from flwer to flwee unless one already exists.
// It reports whether a row was created.
func (d *DB) Follow(ctx context.Context, flwer, flwee int64, at time.Time) (bool, error) {
	created := false
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT COUNT(*) FROM users WHERE usr=?`, flwee)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", flwee, ErrNotFound)
		}
		dup, err := exists(ctx, tx, `SELECT COUNT(*) FROM follows WHERE flwer=? AND flwee=?`, flwer, flwee)
		if err != nil || dup {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO follows(flwer, flwee, start_date) VALUES(?,?,?)`, flwer, flwee, at.Unix()); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// CountRows returns the row count of one of the store's tables.
func (d *DB) CountRows(ctx context.Context, table string) (int, error) {
	switch table {
	case "users", "tweets", "retweets", "follows", "hashtags", "mentions":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	return count(ctx, d.sql, `SELECT COUNT(*) FROM `+table)
}

// MentionCount returns how many mention rows link tid to term.
func (d *DB) MentionCount(ctx context.Context, tid int64, term string) (int, error) {
	return count(ctx, d.sql, `SELECT COUNT(*) FROM mentions WHERE tid=? AND term=?`, tid, term)
}

func scanTweets(rows *sql.Rows) ([]model.Tweet, error) {
	defer rows.Close()
	var out []model.Tweet
	for rows.Next() {
		var t model.Tweet
		var ts int64
		var reply sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Writer, &ts, &t.Text, &reply); err != nil {
			return nil, err
		}
		t.Date, t.ReplyTo = unix(ts), replyPtr(reply)
		out = append(out, t)
	}
	return out, rows.Err()
}

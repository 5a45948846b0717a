package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"sqltweet/internal/model"
	"sqltweet/internal/textutil"
)

// CreateUser inserts a user and returns the store-assigned id.
func (d *DB) CreateUser(ctx context.Context, u model.NewUser) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO users(pwd, name, email, city, timezone) VALUES(?,?,?,?,?)`,
		u.Credential, u.Name, u.Email, u.City, u.Timezone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) UserByID(ctx context.Context, usr int64) (model.User, error) {
	var u model.User
	var email, city, tz sql.NullString
	err := d.sql.QueryRowContext(ctx, `SELECT usr, name, email, city, timezone FROM users WHERE usr=?`, usr).
		Scan(&u.ID, &u.Name, &email, &city, &tz)
	if errors.Is(err, sql.ErrNoRows) {
		return u, fmt.Errorf("user %d: %w", usr, ErrNotFound)
	}
	u.Email, u.City, u.Timezone = email.String, city.String, tz.String
	return u, err
}

// Credential returns the stored pwd column for usr.
func (d *DB) Credential(ctx context.Context, usr int64) (string, error) {
	var pwd string
	err := d.sql.QueryRowContext(ctx, `SELECT pwd FROM users WHERE usr=?`, usr).Scan(&pwd)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("user %d: %w", usr, ErrNotFound)
	}
	return pwd, err
}

// UpdateCredential replaces the stored pwd column for usr.
func (d *DB) UpdateCredential(ctx context.Context, usr int64, credential string) error {
	_, err := d.sql.ExecContext(ctx, `UPDATE users SET pwd=? WHERE usr=?`, credential, usr)
	return err
}

// UserStats counts a user's tweets, followees and followers.
func (d *DB) UserStats(ctx context.Context, usr int64) (model.UserStats, error) {
	var st model.UserStats
	var err error
	if st.Tweets, err = count(ctx, d.sql, `SELECT COUNT(*) FROM tweets WHERE writer=?`, usr); err != nil {
		return st, err
	}
	if st.Following, err = count(ctx, d.sql, `SELECT COUNT(*) FROM follows WHERE flwer=?`, usr); err != nil {
		return st, err
	}
	st.Followers, err = count(ctx, d.sql, `SELECT COUNT(*) FROM follows WHERE flwee=?`, usr)
	return st, err
}

// UserCandidates returns users whose name or city contains keyword, unordered.
func (d *DB) UserCandidates(ctx context.Context, keyword string) ([]model.User, error) {
	pat := textutil.LikeContains(keyword)
	q := sq.Select("usr", "name", "email", "city", "timezone").
		From("users").
		Where(sq.Or{
			sq.Expr(`name LIKE ? ESCAPE '\'`, pat),
			sq.Expr(`city LIKE ? ESCAPE '\'`, pat),
		})
	rows, err := q.RunWith(d.sql).QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// Followers lists the users following usr, oldest edge first.
func (d *DB) Followers(ctx context.Context, usr int64) ([]model.User, error) {
	rows, err := d.sql.QueryContext(ctx, `
	SELECT u.usr, u.name, u.email, u.city, u.timezone
	FROM follows f JOIN users u ON f.flwer = u.usr
	WHERE f.flwee=?
	ORDER BY f.start_date, u.usr`, usr)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		var email, city, tz sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &email, &city, &tz); err != nil {
			return nil, err
		}
		u.Email, u.City, u.Timezone = email.String, city.String, tz.String
		out = append(out, u)
	}
	return out, rows.Err()
}

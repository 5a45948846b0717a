// Package search turns a free-text tweet query into a parameterized select.
//
// Tokens starting with '#' match tweets mentioning that hashtag; any other
// token matches tweets whose text contains it. Predicates are OR-ed. Only
// the predicate shape varies; user text always travels as a bind argument.
package search

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"sqltweet/internal/textutil"
)

// Sigil marks a hashtag token.
const Sigil = "#"

// Predicate is one token's filter.
type Predicate interface {
	sq.Sqlizer
	predicate()
}

// TextContains matches tweets whose text contains Needle.
type TextContains struct{ Needle string }

// HashtagIs matches tweets mentioning Term, compared case-insensitively.
type HashtagIs struct{ Term string }

func (TextContains) predicate() {}
func (HashtagIs) predicate()    {}

func (p TextContains) ToSql() (string, []interface{}, error) {
	return sq.Expr(`t.text LIKE ? ESCAPE '\'`, textutil.LikeContains(p.Needle)).ToSql()
}

func (p HashtagIs) ToSql() (string, []interface{}, error) {
	return sq.Eq{"m.term": strings.ToLower(p.Term)}.ToSql()
}

// Query is a parsed search.
type Query struct {
	Raw        string
	Predicates []Predicate
}

// Parse splits raw on whitespace into predicates.
func Parse(raw string) Query {
	q := Query{Raw: raw}
	for _, tok := range strings.Fields(raw) {
		if strings.HasPrefix(tok, Sigil) {
			term := strings.TrimPrefix(tok, Sigil)
			if term == "" {
				// a bare sigil is ordinary text
				q.Predicates = append(q.Predicates, TextContains{Needle: tok})
				continue
			}
			q.Predicates = append(q.Predicates, HashtagIs{Term: term})
			continue
		}
		q.Predicates = append(q.Predicates, TextContains{Needle: tok})
	}
	return q
}

// Empty reports whether the query has no tokens and so matches every tweet.
func (q Query) Empty() bool { return len(q.Predicates) == 0 }

// Builder renders the query. Rows are tid, writer, tdate, text, replyto,
// newest first with tweet id descending on equal dates.
func (q Query) Builder() sq.SelectBuilder {
	if q.Empty() {
		return sq.Select("t.tid", "t.writer", "t.tdate", "t.text", "t.replyto").
			From("tweets t").
			OrderBy("t.tdate DESC", "t.tid DESC")
	}
	or := make(sq.Or, 0, len(q.Predicates))
	for _, p := range q.Predicates {
		or = append(or, p)
	}
	return sq.Select("t.tid", "t.writer", "t.tdate", "t.text", "t.replyto").
		Distinct().
		From("tweets t").
		LeftJoin("mentions m ON t.tid = m.tid").
		Where(or).
		OrderBy("t.tdate DESC", "t.tid DESC")
}

package discover

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"sqltweet/internal/model"
)

// Candidates supplies users whose name or city contains a keyword.
type Candidates interface {
	UserCandidates(ctx context.Context, keyword string) ([]model.User, error)
}

// Match is a ranked user search hit.
type Match struct {
	User      model.User
	NameMatch bool
	// MatchLen is the length of the field that matched: name when it did, else city.
	MatchLen int
}

// SearchUsers finds and ranks users matching keyword.
func SearchUsers(ctx context.Context, src Candidates, keyword string) ([]Match, error) {
	users, err := src.UserCandidates(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return RankUsers(users, keyword), nil
}

// RankUsers orders users by three keys: name matches before city-only
// matches, then shorter matched field first, then lower user id.
func RankUsers(users []model.User, keyword string) []Match {
	kw := foldASCII(keyword)
	out := make([]Match, 0, len(users))
	for _, u := range users {
		m := Match{User: u, NameMatch: strings.Contains(foldASCII(u.Name), kw)}
		if m.NameMatch {
			m.MatchLen = utf8.RuneCountInString(u.Name)
		} else {
			m.MatchLen = utf8.RuneCountInString(u.City)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.NameMatch != b.NameMatch {
			return a.NameMatch
		}
		if a.MatchLen != b.MatchLen {
			return a.MatchLen < b.MatchLen
		}
		return a.User.ID < b.User.ID
	})
	return out
}

// foldASCII lower-cases A-Z only, the folding SQLite LIKE applies when
// candidates are fetched.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}, s)
}

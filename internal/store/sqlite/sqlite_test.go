package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sqltweet/internal/model"
)

func TestUsersAndStats(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil { t.Fatal(err) }
	defer db.Close()
	ctx := context.Background()
	now := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	a, err := db.CreateUser(ctx, model.NewUser{Name: "ana", Credential: "h", City: "Lima"})
	if err != nil { t.Fatal(err) }
	b, _ := db.CreateUser(ctx, model.NewUser{Name: "bob", Credential: "h"})
	if b != a+1 { t.Fatalf("expected sequential ids, got %d then %d", a, b) }
	if _, err := db.Follow(ctx, b, a, now); err != nil { t.Fatal(err) }
	again, err := db.Follow(ctx, b, a, now)
	if err != nil || again { t.Fatalf("duplicate follow must not insert: %v %v", again, err) }
	if _, err := db.InsertTweet(ctx, model.Tweet{Writer: a, Date: now, Text: "one"}, nil); err != nil { t.Fatal(err) }
	st, err := db.UserStats(ctx, a)
	if err != nil { t.Fatal(err) }
	if st.Tweets != 1 || st.Followers != 1 || st.Following != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
	fl, err := db.Followers(ctx, a)
	if err != nil || len(fl) != 1 || fl[0].ID != b { t.Fatalf("followers: %+v %v", fl, err) }
	u, err := db.UserByID(ctx, a)
	if err != nil || u.City != "Lima" { t.Fatalf("user: %+v %v", u, err) }
	if _, err := db.UserByID(ctx, 777); !errors.Is(err, ErrNotFound) { t.Fatalf("expected ErrNotFound, got %v", err) }
	if _, err := db.Credential(ctx, 777); !errors.Is(err, ErrNotFound) { t.Fatalf("expected ErrNotFound, got %v", err) }
}

func TestAuthorTweetsExcludesRepliesNewestFirst(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil { t.Fatal(err) }
	defer db.Close()
	ctx := context.Background()
	base := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	a, _ := db.CreateUser(ctx, model.NewUser{Name: "ana", Credential: "h"})
	var ids []int64
	for i := 0; i < 4; i++ {
		id, err := db.InsertTweet(ctx, model.Tweet{Writer: a, Date: base.Add(time.Duration(i) * time.Hour), Text: "t"}, nil)
		if err != nil { t.Fatal(err) }
		ids = append(ids, id)
	}
	parent := ids[0]
	if _, err := db.InsertTweet(ctx, model.Tweet{Writer: a, Date: base.Add(9 * time.Hour), Text: "reply", ReplyTo: &parent}, nil); err != nil {
		t.Fatal(err)
	}
	all, err := db.AuthorTweets(ctx, a, 0)
	if err != nil { t.Fatal(err) }
	if len(all) != 4 || all[0].ID != ids[3] || all[3].ID != ids[0] {
		t.Fatalf("unexpected author tweets %+v", all)
	}
	top, _ := db.AuthorTweets(ctx, a, 3)
	if len(top) != 3 { t.Fatalf("expected limit 3, got %d", len(top)) }
	if !all[0].Date.Equal(base.Add(3 * time.Hour)) { t.Fatalf("date round trip: %v", all[0].Date) }
}

func TestTweetStatsNotFound(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil { t.Fatal(err) }
	defer db.Close()
	if _, err := db.TweetStats(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := db.CountRows(context.Background(), "sqlite_master"); err == nil {
		t.Fatalf("expected unknown table error")
	}
}

func TestReopenFileKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.db")
	db, err := Open(path)
	if err != nil { t.Fatal(err) }
	ctx := context.Background()
	if _, err := db.CreateUser(ctx, model.NewUser{Name: "ana", Credential: "h"}); err != nil { t.Fatal(err) }
	db.Close()
	db, err = Open(path)
	if err != nil { t.Fatal(err) }
	defer db.Close()
	if n, _ := db.CountRows(ctx, "users"); n != 1 { t.Fatalf("expected persisted user, got %d", n) }
}

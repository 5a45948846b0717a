package feed

import (
	"context"
	"testing"
	"time"

	"sqltweet/internal/model"
	"sqltweet/internal/store/sqlite"
)

func TestMergeOrdersByDateThenTieBreak(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	tweets := []model.Tweet{
		{ID: 1, Writer: 10, Date: d1, Text: "old"},
		{ID: 3, Writer: 11, Date: d2, Text: "new"},
	}
	retweets := []model.Retweet{
		{User: 12, Date: d2, Tweet: model.Tweet{ID: 1, Writer: 10, Date: d1, Text: "old"}},
		{User: 11, Date: d2, Tweet: model.Tweet{ID: 3, Writer: 11, Date: d2, Text: "new"}},
	}
	got := Merge(tweets, retweets)
	if len(got) != 4 {
		t.Fatalf("expected 4 items, got %d", len(got))
	}
	// d2: tid 1 (retweet by 12), tid 3 original, tid 3 retweet by 11; then d1 original
	want := []struct {
		tid     int64
		actor   int64
		retweet bool
	}{{1, 12, true}, {3, 11, false}, {3, 11, true}, {1, 10, false}}
	for i, w := range want {
		g := got[i]
		if g.TweetID != w.tid || g.Actor != w.actor || g.IsRetweet != w.retweet {
			t.Fatalf("item %d: got %+v want %+v", i, g, w)
		}
	}
}

func TestBuildEmptyWithoutFollowees(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	a, _ := db.CreateUser(ctx, model.NewUser{Name: "a", Credential: "x"})
	b, _ := db.CreateUser(ctx, model.NewUser{Name: "b", Credential: "x"})
	if _, err := db.InsertTweet(ctx, model.Tweet{Writer: b, Date: time.Now(), Text: "hi"}, nil); err != nil {
		t.Fatal(err)
	}
	items, err := NewBuilder(db).Build(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty feed, got %d", len(items))
	}
}

func TestBuildIncludesFolloweeTweetsAndRetweets(t *testing.T) {
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	me, _ := db.CreateUser(ctx, model.NewUser{Name: "me", Credential: "x"})
	friend, _ := db.CreateUser(ctx, model.NewUser{Name: "friend", Credential: "x"})
	stranger, _ := db.CreateUser(ctx, model.NewUser{Name: "stranger", Credential: "x"})
	own, _ := db.InsertTweet(ctx, model.Tweet{Writer: friend, Date: base, Text: "friend post"}, nil)
	other, _ := db.InsertTweet(ctx, model.Tweet{Writer: stranger, Date: base.Add(time.Hour), Text: "stranger post"}, nil)
	if _, err := db.InsertTweet(ctx, model.Tweet{Writer: stranger, Date: base.Add(3 * time.Hour), Text: "unseen"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Retweet(ctx, friend, other, base.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Follow(ctx, me, friend, base); err != nil {
		t.Fatal(err)
	}
	items, err := NewBuilder(db).Build(ctx, me)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %+v", items)
	}
	if !items[0].IsRetweet || items[0].TweetID != other || items[0].Actor != friend {
		t.Fatalf("expected newest item to be friend's retweet, got %+v", items[0])
	}
	if items[1].IsRetweet || items[1].TweetID != own {
		t.Fatalf("expected original second, got %+v", items[1])
	}
}

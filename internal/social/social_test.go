package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"sqltweet/internal/model"
	"sqltweet/internal/session"
	"sqltweet/internal/store/sqlite"
)

type fixture struct {
	db  *sqlite.DB
	svc *Service
	ana *session.Session
	bob *session.Session
	ctx context.Context
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(db, func() time.Time { clock = clock.Add(time.Minute); return clock })
	a, _ := db.CreateUser(ctx, model.NewUser{Name: "ana", Credential: "x"})
	b, _ := db.CreateUser(ctx, model.NewUser{Name: "bob", Credential: "x"})
	return fixture{
		db:  db,
		svc: svc,
		ana: session.New(model.User{ID: a, Name: "ana"}, clock),
		bob: session.New(model.User{ID: b, Name: "bob"}, clock),
		ctx: ctx,
	}
}

func TestComposeKeepsDuplicateMentions(t *testing.T) {
	f := setup(t)
	tid, err := f.svc.Compose(f.ctx, f.ana, "Hello #World #world", nil)
	if err != nil {
		t.Fatal(err)
	}
	terms, _ := f.db.CountRows(f.ctx, "hashtags")
	if terms != 1 {
		t.Fatalf("expected one hashtag term, got %d", terms)
	}
	n, _ := f.db.MentionCount(f.ctx, tid, "world")
	if n != 2 {
		t.Fatalf("expected two mentions, got %d", n)
	}
	// an existing term is reused, not re-inserted
	if _, err := f.svc.Compose(f.ctx, f.bob, "more #WORLD", nil); err != nil {
		t.Fatal(err)
	}
	if terms, _ := f.db.CountRows(f.ctx, "hashtags"); terms != 1 {
		t.Fatalf("expected term reuse, got %d terms", terms)
	}
}

func TestComposeRejectsBlankText(t *testing.T) {
	f := setup(t)
	if _, err := f.svc.Compose(f.ctx, f.ana, "   ", nil); !errors.Is(err, ErrEmptyTweet) {
		t.Fatalf("expected ErrEmptyTweet, got %v", err)
	}
}

func TestComposeReplyAssignsIncreasingIDs(t *testing.T) {
	f := setup(t)
	parent, _ := f.svc.Compose(f.ctx, f.ana, "root", nil)
	reply, err := f.svc.Compose(f.ctx, f.bob, "answer", &parent)
	if err != nil {
		t.Fatal(err)
	}
	if reply <= parent {
		t.Fatalf("expected store-assigned increasing ids, got %d after %d", reply, parent)
	}
	got, _ := f.db.TweetByID(f.ctx, reply)
	if got.ReplyTo == nil || *got.ReplyTo != parent {
		t.Fatalf("reply target not stored: %+v", got)
	}
	st, _ := f.db.TweetStats(f.ctx, parent)
	if st.Replies != 1 || st.WriterName != "ana" {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestRetweetTwiceLeavesOneRow(t *testing.T) {
	f := setup(t)
	tid, _ := f.svc.Compose(f.ctx, f.ana, "worth sharing", nil)
	first, err := f.svc.Retweet(f.ctx, f.bob, tid)
	if err != nil || !first {
		t.Fatalf("first retweet: %v %v", first, err)
	}
	second, err := f.svc.Retweet(f.ctx, f.bob, tid)
	if err != nil || second {
		t.Fatalf("second retweet should be declined: %v %v", second, err)
	}
	if n, _ := f.db.CountRows(f.ctx, "retweets"); n != 1 {
		t.Fatalf("expected one retweet row, got %d", n)
	}
	if _, err := f.svc.Retweet(f.ctx, f.bob, 9999); !errors.Is(err, sqlite.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFollowOutcomes(t *testing.T) {
	f := setup(t)
	if o, err := f.svc.Follow(f.ctx, f.ana, f.bob.UserID()); err != nil || o != Followed {
		t.Fatalf("expected Followed, got %v %v", o, err)
	}
	if o, err := f.svc.Follow(f.ctx, f.ana, f.bob.UserID()); err != nil || o != AlreadyFollowing {
		t.Fatalf("expected AlreadyFollowing, got %v %v", o, err)
	}
	if o, _ := f.svc.Follow(f.ctx, f.ana, f.ana.UserID()); o != SelfFollow {
		t.Fatalf("expected SelfFollow, got %v", o)
	}
	if n, _ := f.db.CountRows(f.ctx, "follows"); n != 1 {
		t.Fatalf("expected one edge, got %d", n)
	}
	if _, err := f.svc.Follow(f.ctx, f.ana, 4242); !errors.Is(err, sqlite.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

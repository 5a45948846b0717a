// Package social holds the single-write user actions: compose, retweet, follow.
package social

import (
	"context"
	"errors"
	"strings"
	"time"

	"sqltweet/internal/metrics"
	"sqltweet/internal/model"
	"sqltweet/internal/session"
	"sqltweet/internal/textutil"
)

// ErrEmptyTweet rejects a tweet with no visible text.
var ErrEmptyTweet = errors.New("tweet text is empty")

// Store is the subset of the database the actions write to.
type Store interface {
	InsertTweet(ctx context.Context, t model.Tweet, terms []string) (int64, error)
	Retweet(ctx context.Context, usr, tid int64, at time.Time) (bool, error)
	Follow(ctx context.Context, flwer, flwee int64, at time.Time) (bool, error)
}

// FollowOutcome is the result of a follow request.
type FollowOutcome int

const (
	Followed FollowOutcome = iota
	AlreadyFollowing
	SelfFollow
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, now: now}
}

// Compose posts text as sess's tweet, replying to replyTo when non-nil, and
// links every hashtag occurrence in text to it.
func (s *Service) Compose(ctx context.Context, sess *session.Session, text string, replyTo *int64) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyTweet
	}
	t := model.Tweet{Writer: sess.UserID(), Date: s.now(), Text: text, ReplyTo: replyTo}
	tid, err := s.store.InsertTweet(ctx, t, textutil.Hashtags(text))
	if err != nil {
		return 0, err
	}
	if replyTo != nil {
		metrics.IncCompose("reply")
	} else {
		metrics.IncCompose("tweet")
	}
	return tid, nil
}

// Retweet reposts tid for sess. It reports false when sess already retweeted it.
func (s *Service) Retweet(ctx context.Context, sess *session.Session, tid int64) (bool, error) {
	created, err := s.store.Retweet(ctx, sess.UserID(), tid, s.now())
	if err != nil {
		return false, err
	}
	if created {
		metrics.IncRetweet("created")
	} else {
		metrics.IncRetweet("duplicate")
	}
	return created, nil
}

// Follow subscribes sess to target's activity.
func (s *Service) Follow(ctx context.Context, sess *session.Session, target int64) (FollowOutcome, error) {
	if target == sess.UserID() {
		metrics.IncFollow("self")
		return SelfFollow, nil
	}
	created, err := s.store.Follow(ctx, sess.UserID(), target, s.now())
	if err != nil {
		return 0, err
	}
	if !created {
		metrics.IncFollow("duplicate")
		return AlreadyFollowing, nil
	}
	metrics.IncFollow("created")
	return Followed, nil
}

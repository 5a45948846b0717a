package feed

import (
	"context"
	"sort"

	"sqltweet/internal/model"
)

// Source supplies the raw rows a feed is assembled from.
type Source interface {
	FolloweeTweets(ctx context.Context, usr int64) ([]model.Tweet, error)
	FolloweeRetweets(ctx context.Context, usr int64) ([]model.Retweet, error)
}

// Builder assembles a user's feed.
type Builder struct{ src Source }

func NewBuilder(src Source) *Builder { return &Builder{src: src} }

// Build returns the tweets and retweets of everyone usr follows, newest
// first. An empty result means usr follows nobody with activity.
func (b *Builder) Build(ctx context.Context, usr int64) ([]model.FeedItem, error) {
	tweets, err := b.src.FolloweeTweets(ctx, usr)
	if err != nil {
		return nil, err
	}
	retweets, err := b.src.FolloweeRetweets(ctx, usr)
	if err != nil {
		return nil, err
	}
	return Merge(tweets, retweets), nil
}

// Merge unions originals and retweets into one list ordered by event date
// descending. Equal dates fall back to tweet id ascending, then originals
// before retweets, then acting user id ascending.
func Merge(tweets []model.Tweet, retweets []model.Retweet) []model.FeedItem {
	items := make([]model.FeedItem, 0, len(tweets)+len(retweets))
	for _, t := range tweets {
		items = append(items, model.FeedItem{TweetID: t.ID, Actor: t.Writer, Date: t.Date, Text: t.Text, ReplyTo: t.ReplyTo})
	}
	for _, r := range retweets {
		items = append(items, model.FeedItem{TweetID: r.Tweet.ID, Actor: r.User, Date: r.Date, Text: r.Tweet.Text, ReplyTo: r.Tweet.ReplyTo, IsRetweet: true})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.TweetID != b.TweetID {
			return a.TweetID < b.TweetID
		}
		if a.IsRetweet != b.IsRetweet {
			return !a.IsRetweet
		}
		return a.Actor < b.Actor
	})
	return items
}

package model

import "time"

// User is a registered account. Credential is never exposed here.
type User struct {
	ID       int64
	Name     string
	Email    string
	City     string
	Timezone string
}

// Tweet is an authored post, optionally replying to another tweet.
type Tweet struct {
	ID      int64
	Writer  int64
	Date    time.Time
	Text    string
	ReplyTo *int64
}

// Retweet is a user's repost of an existing tweet.
type Retweet struct {
	User  int64
	Tweet Tweet
	Date  time.Time
}

// FeedItem is one row of a feed: an original tweet or a retweet of it.
// Actor is the writer for originals and the retweeter for retweets.
type FeedItem struct {
	TweetID   int64
	Actor     int64
	Date      time.Time
	Text      string
	ReplyTo   *int64
	IsRetweet bool
}

// TweetStats holds the lookups shown on a tweet's detail screen.
type TweetStats struct {
	Replies    int
	Retweets   int
	WriterName string
}

// UserStats holds the counts shown on a user's detail screen.
type UserStats struct {
	Tweets    int
	Following int
	Followers int
}

// NewUser is the signup payload; Credential is already hashed.
type NewUser struct {
	Name       string
	Credential string
	Email      string
	City       string
	Timezone   string
}

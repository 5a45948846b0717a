package app

import (
	"context"
	"errors"
	"fmt"

	"sqltweet/internal/discover"
	"sqltweet/internal/metrics"
	"sqltweet/internal/model"
	"sqltweet/internal/pager"
	"sqltweet/internal/search"
	"sqltweet/internal/session"
	"sqltweet/internal/social"
	"sqltweet/internal/textutil"
)

const dateLayout = "2006-01-02 15:04"

func (a *App) showFeed(ctx context.Context, sess *session.Session) error {
	items, err := a.feed.Build(ctx, sess.UserID())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.io.Say("Follow people to get results in your feed!")
		return nil
	}
	res := pager.Pager[model.FeedItem]{
		IO:         a.io,
		BatchSize:  a.cfg.Display.PageSize,
		Render:     renderFeedItem,
		Labels:     pager.TweetLabels,
		Selectable: true,
	}.Run(items)
	if res.Selected < 0 {
		return nil
	}
	if err := a.tweetInfo(ctx, res.Row.TweetID); err != nil {
		return err
	}
	if res.Row.IsRetweet {
		a.io.Say("[retweeted by: %d] [rdate: %s]", res.Row.Actor, res.Row.Date.Format(dateLayout))
	}
	return a.tweetActions(ctx, sess, res.Row.TweetID, false)
}

func renderFeedItem(it model.FeedItem) string {
	s := fmt.Sprintf("[tweet id: %d] [text: %s]", it.TweetID, textutil.NormalizeWhitespace(it.Text))
	if it.IsRetweet {
		s += fmt.Sprintf(" [retweeted by: %d]", it.Actor)
	}
	return s
}

func renderTweet(t model.Tweet) string {
	return fmt.Sprintf("[tweet id: %d] [text: %s]", t.ID, textutil.NormalizeWhitespace(t.Text))
}

// tweetInfo prints a tweet with its reply count, retweet count and writer name.
func (a *App) tweetInfo(ctx context.Context, tid int64) error {
	t, err := a.db.TweetByID(ctx, tid)
	if err != nil {
		return err
	}
	st, err := a.db.TweetStats(ctx, tid)
	if err != nil {
		return err
	}
	replyTo := "None"
	if t.ReplyTo != nil {
		replyTo = fmt.Sprint(*t.ReplyTo)
	}
	a.io.Say("")
	a.io.Say("Information:")
	a.io.Say("[tweet id: %d] [writer id: %d] [writer name: %s] [tdate: %s]", t.ID, t.Writer, st.WriterName, t.Date.Format(dateLayout))
	a.io.Say("[replying to: %s] [reply count: %d] [retweet count: %d]", replyTo, st.Replies, st.Retweets)
	a.io.Say("%s", t.Text)
	return nil
}

// tweetActions offers reply and retweet on tid. withInfo adds a leading
// entry that prints the tweet's details and asks again.
func (a *App) tweetActions(ctx context.Context, sess *session.Session, tid int64, withInfo bool) error {
	for {
		a.io.Say("")
		a.io.Say("Options:")
		reply, retweet := "1", "2"
		if withInfo {
			a.io.Say("1. More tweet information")
			reply, retweet = "2", "3"
		}
		a.io.Say("%s. Reply", reply)
		a.io.Say("%s. Retweet", retweet)
		choice, err := a.io.AskTrimmed("Enter choice [Or s to skip]: ")
		if err != nil {
			return err
		}
		switch {
		case withInfo && choice == "1":
			if err := a.tweetInfo(ctx, tid); err != nil {
				return err
			}
		case choice == reply:
			return a.reply(ctx, sess, tid)
		case choice == retweet:
			return a.retweet(ctx, sess, tid)
		case choice == pager.SkipToken:
			return nil
		default:
			a.io.Say("Invalid Option")
		}
	}
}

func (a *App) reply(ctx context.Context, sess *session.Session, tid int64) error {
	text, err := a.io.Ask("Compose your tweet: ")
	if err != nil {
		return err
	}
	id, err := a.social.Compose(ctx, sess, text, &tid)
	if errors.Is(err, social.ErrEmptyTweet) {
		a.io.Say("Tweet text cannot be empty.")
		return nil
	}
	if err != nil {
		return err
	}
	a.io.Say("Your reply has been posted. [tweet id: %d]", id)
	return nil
}

func (a *App) retweet(ctx context.Context, sess *session.Session, tid int64) error {
	created, err := a.social.Retweet(ctx, sess, tid)
	if err != nil {
		return err
	}
	if !created {
		a.io.Say("You have already retweeted this tweet.")
		return nil
	}
	a.io.Say("The tweet has been retweeted.")
	return nil
}

func (a *App) compose(ctx context.Context, sess *session.Session) error {
	text, err := a.io.Ask("Compose your tweet: ")
	if err != nil {
		return err
	}
	id, err := a.social.Compose(ctx, sess, text, nil)
	if errors.Is(err, social.ErrEmptyTweet) {
		a.io.Say("Tweet text cannot be empty.")
		return nil
	}
	if err != nil {
		return err
	}
	a.io.Say("Your tweet has been posted. [tweet id: %d]", id)
	return nil
}

func (a *App) searchTweets(ctx context.Context, sess *session.Session) error {
	for {
		raw, err := a.io.Ask("Enter keywords separated by spaces to filter tweets [or leave it empty to display all]: ")
		if err != nil {
			return err
		}
		q := search.Parse(raw)
		metrics.IncSearch("tweets")
		rows, err := a.db.SearchTweets(ctx, q.Builder())
		if err != nil {
			return err
		}
		res := pager.Pager[model.Tweet]{
			IO:         a.io,
			BatchSize:  a.cfg.Display.PageSize,
			Render:     renderTweet,
			Labels:     pager.TweetLabels,
			Selectable: true,
		}.Run(rows)
		if res.Selected >= 0 {
			if err := a.tweetActions(ctx, sess, res.Row.ID, true); err != nil {
				return err
			}
		}
		again, err := a.io.YesNo("Search with another keyword (Y/N)? ")
		if err != nil || !again {
			return err
		}
	}
}

func (a *App) searchUsers(ctx context.Context, sess *session.Session) error {
	keyword, err := a.io.Ask("Enter a keyword to search for users: ")
	if err != nil {
		return err
	}
	metrics.IncSearch("users")
	matches, err := discover.SearchUsers(ctx, a.db, keyword)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		a.io.Say("No users found with the keyword '%s'.", keyword)
		return nil
	}
	labels := pager.UserLabels
	labels.Heading = "\nMatching Users:"
	res := pager.Pager[discover.Match]{
		IO:        a.io,
		BatchSize: a.cfg.Display.PageSize,
		Render: func(m discover.Match) string {
			return fmt.Sprintf("User ID: %d, Name: %s, City: %s", m.User.ID, m.User.Name, m.User.City)
		},
		Labels:     labels,
		Selectable: true,
	}.Run(matches)
	if res.Selected < 0 {
		return nil
	}
	return a.userDetails(ctx, sess, res.Row.User)
}

func (a *App) listFollowers(ctx context.Context, sess *session.Session) error {
	followers, err := a.db.Followers(ctx, sess.UserID())
	if err != nil {
		return err
	}
	if len(followers) == 0 {
		a.io.Say("You have no followers.")
		return nil
	}
	labels := pager.UserLabels
	labels.Heading = "\nYour Followers:"
	res := pager.Pager[model.User]{
		IO:        a.io,
		BatchSize: a.cfg.Display.PageSize,
		Render: func(u model.User) string {
			return fmt.Sprintf("%s (User ID: %d)", u.Name, u.ID)
		},
		Labels:     labels,
		Selectable: true,
	}.Run(followers)
	if res.Selected < 0 {
		return nil
	}
	return a.userDetails(ctx, sess, res.Row)
}

func (a *App) userDetails(ctx context.Context, sess *session.Session, u model.User) error {
	st, err := a.db.UserStats(ctx, u.ID)
	if err != nil {
		return err
	}
	a.io.Say("")
	a.io.Say("User ID: %d", u.ID)
	a.io.Say("Name: %s", u.Name)
	a.io.Say("City: %s", u.City)
	a.io.Say("Number of Tweets: %d", st.Tweets)
	a.io.Say("Following: %d users", st.Following)
	a.io.Say("Followers: %d", st.Followers)
	recent, err := a.db.AuthorTweets(ctx, u.ID, a.cfg.Display.RecentTweets)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		a.io.Say("")
		a.io.Say("%d Most Recent Tweets:", len(recent))
		for i, t := range recent {
			a.io.Say("%d. %s: %s", i+1, t.Date.Format(dateLayout), textutil.NormalizeWhitespace(t.Text))
		}
	}
	for {
		a.io.Say("")
		a.io.Say("Options:")
		a.io.Say("1. Follow this user")
		a.io.Say("2. See more tweets from this user")
		a.io.Say("3. Go back")
		choice, err := a.io.AskTrimmed("Enter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := a.follow(ctx, sess, u.ID); err != nil {
				return err
			}
		case "2":
			if err := a.authorTweets(ctx, u.ID); err != nil {
				return err
			}
		case "3":
			return nil
		default:
			a.io.Say("Invalid choice. Please try again.")
		}
	}
}

func (a *App) follow(ctx context.Context, sess *session.Session, target int64) error {
	outcome, err := a.social.Follow(ctx, sess, target)
	if err != nil {
		return err
	}
	switch outcome {
	case social.Followed:
		a.io.Say("You are now following User ID %d!", target)
	case social.AlreadyFollowing:
		a.io.Say("You are already following User ID %d.", target)
	case social.SelfFollow:
		a.io.Say("You cannot follow yourself.")
	}
	return nil
}

func (a *App) authorTweets(ctx context.Context, usr int64) error {
	tweets, err := a.db.AuthorTweets(ctx, usr, 0)
	if err != nil {
		return err
	}
	if len(tweets) == 0 {
		a.io.Say("No tweets from this user.")
		return nil
	}
	labels := pager.TweetLabels
	labels.Heading = "\nUser's Tweets:"
	labels.More = "Show more tweets (Y/N)? "
	pager.Pager[model.Tweet]{
		IO:        a.io,
		BatchSize: a.cfg.Display.AuthorPageSize,
		Render: func(t model.Tweet) string {
			return fmt.Sprintf("%s: %s", t.Date.Format(dateLayout), textutil.NormalizeWhitespace(t.Text))
		},
		Labels: labels,
	}.Run(tweets)
	return nil
}

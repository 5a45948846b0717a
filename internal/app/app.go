// Package app runs the interactive client: the start screen, the main menu
// and the screens reachable from them.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sqltweet/internal/auth"
	"sqltweet/internal/cmdlog"
	"sqltweet/internal/config"
	"sqltweet/internal/console"
	"sqltweet/internal/feed"
	"sqltweet/internal/logging"
	"sqltweet/internal/session"
	"sqltweet/internal/social"
	"sqltweet/internal/store/sqlite"
)

// errExit is returned by the start screen when the user chooses to leave.
var errExit = errors.New("exit")

// App holds the collaborators shared by every screen.
type App struct {
	db     *sqlite.DB
	io     *console.Console
	cfg    config.Config
	auth   *auth.Authenticator
	social *social.Service
	feed   *feed.Builder
	now    func() time.Time
}

// New wires an App. now may be nil for the wall clock.
func New(db *sqlite.DB, io *console.Console, cfg config.Config, now func() time.Time) *App {
	cfg.Normalize()
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &App{
		db:     db,
		io:     io,
		cfg:    cfg,
		auth:   auth.New(db, cfg.Auth),
		social: social.NewService(db, now),
		feed:   feed.NewBuilder(db),
		now:    now,
	}
}

// Run loops between the start screen and the main menu until the user exits
// or input is exhausted, both of which return nil. A non-nil error means the
// store became unavailable.
func (a *App) Run(ctx context.Context) error {
	for {
		sess, err := a.startScreen(ctx)
		if errors.Is(err, errExit) || errors.Is(err, console.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		err = a.mainMenu(ctx, sess)
		if errors.Is(err, console.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) startScreen(ctx context.Context) (*session.Session, error) {
	for {
		a.io.Say("")
		a.io.Say("1. Login")
		a.io.Say("2. Sign Up")
		a.io.Say("3. Exit")
		choice, err := a.io.AskTrimmed("Enter choice: ")
		if err != nil {
			return nil, err
		}
		var sess *session.Session
		switch choice {
		case "1":
			sess, err = a.login(ctx)
		case "2":
			sess, err = a.signup(ctx)
		case "3":
			return nil, errExit
		default:
			a.io.Say("Invalid choice. Please try again.")
			continue
		}
		if err = a.settle(ctx, err); err != nil {
			return nil, err
		}
		if sess.Active() {
			return sess, nil
		}
	}
}

func (a *App) login(ctx context.Context) (*session.Session, error) {
	for attempt := 0; attempt < a.cfg.Auth.MaxAttempts; attempt++ {
		id, err := a.io.Ask("Enter user ID: ")
		if err != nil {
			return nil, err
		}
		pwd, err := a.io.Password("Enter password: ")
		if err != nil {
			return nil, err
		}
		u, err := a.auth.Login(ctx, id, pwd)
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			a.io.Say("User not found, try again.")
			continue
		case errors.Is(err, auth.ErrBadPassword):
			a.io.Say("Incorrect password, try again.")
			continue
		case err != nil:
			return nil, err
		}
		a.io.Say("Login successful!")
		sess := session.New(u, a.now())
		logging.Info("login", sess.Fields())
		err = cmdlog.Run("feed", sess, func() error { return a.showFeed(ctx, sess) })
		return sess, err
	}
	a.io.Say("Too many attempts, bringing you back to main screen.")
	return nil, nil
}

func (a *App) signup(ctx context.Context) (*session.Session, error) {
	var f auth.SignupForm
	var err error
	if f.Name, err = a.io.Ask("Enter Name: "); err != nil {
		return nil, err
	}
	if f.Password, err = a.io.Password("Enter password: "); err != nil {
		return nil, err
	}
	if f.Email, err = a.io.Ask("Enter Email: "); err != nil {
		return nil, err
	}
	if f.City, err = a.io.Ask("Enter City: "); err != nil {
		return nil, err
	}
	if f.Timezone, err = a.io.Ask("Enter Timezone: "); err != nil {
		return nil, err
	}
	u, err := a.auth.Signup(ctx, f)
	if errors.Is(err, auth.ErrMissingName) || errors.Is(err, auth.ErrMissingPassword) {
		a.io.Say("Name and password are required.")
		return nil, nil
	}
	if errors.Is(err, auth.ErrPasswordTooLong) {
		a.io.Say("Password must be at most 72 bytes long.")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.io.Say("Your user id is: %d", u.ID)
	now, err := a.io.YesNo("Log in [Y/N]: ")
	if err != nil || !now {
		return nil, err
	}
	sess := session.New(u, a.now())
	logging.Info("login", sess.Fields())
	return sess, nil
}

func (a *App) mainMenu(ctx context.Context, sess *session.Session) error {
	for sess.Active() {
		a.io.Say("")
		a.io.Say("Main Menu:")
		a.io.Say("1. Search Tweets")
		a.io.Say("2. Search Users")
		a.io.Say("3. Compose Tweet")
		a.io.Say("4. List Followers")
		a.io.Say("5. Logout")
		choice, err := a.io.AskTrimmed("Enter choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			err = cmdlog.Run("search_tweets", sess, func() error { return a.searchTweets(ctx, sess) })
		case "2":
			err = cmdlog.Run("search_users", sess, func() error { return a.searchUsers(ctx, sess) })
		case "3":
			err = cmdlog.Run("compose", sess, func() error { return a.compose(ctx, sess) })
		case "4":
			err = cmdlog.Run("followers", sess, func() error { return a.listFollowers(ctx, sess) })
		case "5":
			logging.Info("logout", sess.Fields())
			sess.End()
			a.io.Say("Logged out successfully!")
		default:
			a.io.Say("Invalid choice. Try again.")
		}
		if err = a.settle(ctx, err); err != nil {
			return err
		}
	}
	return nil
}

// settle turns an operation's error into what the menu loop should do:
// nil to carry on, or an error that ends the loop. Missing records and
// failed statements abort only the operation; an unreachable store or
// exhausted input end the loop.
func (a *App) settle(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, console.ErrClosed):
		return err
	case errors.Is(err, sqlite.ErrNotFound):
		a.io.Say("Not found.")
		return nil
	}
	if perr := a.db.Ping(ctx); perr != nil {
		return fmt.Errorf("store unavailable: %w", perr)
	}
	a.io.Say("The operation could not be completed.")
	return nil
}

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"sqltweet/internal/config"
	"sqltweet/internal/logging"
	"sqltweet/internal/metrics"
	"sqltweet/internal/model"
	"sqltweet/internal/store/sqlite"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBadPassword     = errors.New("incorrect password")
	ErrMissingName     = errors.New("name is required")
	ErrMissingPassword = errors.New("password is required")
	ErrPasswordTooLong = errors.New("password is longer than 72 bytes")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Store is the subset of the database the authenticator uses.
type Store interface {
	CreateUser(ctx context.Context, u model.NewUser) (int64, error)
	UserByID(ctx context.Context, usr int64) (model.User, error)
	Credential(ctx context.Context, usr int64) (string, error)
	UpdateCredential(ctx context.Context, usr int64, credential string) error
}

// Authenticator checks credentials and registers users.
type Authenticator struct {
	store   Store
	cost    int
	legacy  bool
	limiter *rate.Limiter
}

func New(store Store, cfg config.AuthConfig) *Authenticator {
	limit := rate.Inf
	if cfg.AttemptsPerSecond > 0 {
		limit = rate.Limit(cfg.AttemptsPerSecond)
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{store: store, cost: cost, legacy: cfg.LegacyPlaintext, limiter: rate.NewLimiter(limit, 1)}
}

// SignupForm is what a new user enters.
type SignupForm struct {
	Name     string
	Password string
	Email    string
	City     string
	Timezone string
}

// Signup stores a new user with a hashed password and returns it.
func (a *Authenticator) Signup(ctx context.Context, f SignupForm) (model.User, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return model.User{}, ErrMissingName
	}
	if f.Password == "" {
		return model.User{}, ErrMissingPassword
	}
	if len(f.Password) > maxPasswordBytes {
		return model.User{}, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), a.cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.NewUser{
		Name:       name,
		Credential: string(hash),
		Email:      strings.TrimSpace(f.Email),
		City:       strings.TrimSpace(f.City),
		Timezone:   strings.TrimSpace(f.Timezone),
	}
	id, err := a.store.CreateUser(ctx, u)
	if err != nil {
		return model.User{}, err
	}
	logging.Info("signup", map[string]any{"usr": id})
	return model.User{ID: id, Name: u.Name, Email: u.Email, City: u.City, Timezone: u.Timezone}, nil
}

// Login verifies the password for the user id typed as idText.
func (a *Authenticator) Login(ctx context.Context, idText, password string) (model.User, error) {
	u, err := a.login(ctx, idText, password)
	switch {
	case err == nil:
		metrics.IncLogin("ok")
	case errors.Is(err, ErrUserNotFound):
		metrics.IncLogin("unknown_user")
	case errors.Is(err, ErrBadPassword):
		metrics.IncLogin("bad_password")
	default:
		metrics.IncLogin("error")
	}
	return u, err
}

func (a *Authenticator) login(ctx context.Context, idText, password string) (model.User, error) {
	usr, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
	if err != nil {
		return model.User{}, ErrUserNotFound
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return model.User{}, err
	}
	stored, err := a.store.Credential(ctx, usr)
	if errors.Is(err, sqlite.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if err := a.verify(ctx, usr, stored, password); err != nil {
		return model.User{}, err
	}
	return a.store.UserByID(ctx, usr)
}

func (a *Authenticator) verify(ctx context.Context, usr int64, stored, password string) error {
	if IsHash(stored) {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return ErrBadPassword
		}
		return nil
	}
	if !a.legacy || subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrBadPassword
	}
	// the password matched; a failed upgrade leaves the plaintext row for next time
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		logging.Error("credential_upgrade_failed", map[string]any{"usr": usr, "error": err.Error()})
		return nil
	}
	if err := a.store.UpdateCredential(ctx, usr, string(hash)); err != nil {
		logging.Error("credential_upgrade_failed", map[string]any{"usr": usr, "error": err.Error()})
		return nil
	}
	logging.Info("credential_upgraded", map[string]any{"usr": usr})
	return nil
}

// IsHash reports whether a stored credential is a bcrypt hash.
func IsHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

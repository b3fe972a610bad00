// Package account runs the login and signup forms against the remote service
// and owns the session lifecycle.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"example.com/notesin/internal/client"
	"example.com/notesin/internal/notify"
	"example.com/notesin/internal/session"
	"example.com/notesin/internal/validate"
)

var ErrBusy = errors.New("request already in flight")

// AuthAPI is the part of the remote service used for accounts.
type AuthAPI interface {
	Login(ctx context.Context, cr client.Credentials) (client.LoginResult, error)
	Register(ctx context.Context, cr client.Credentials) (client.RegisterResult, error)
}

// Form is the content of the login or signup screen.
type Form struct {
	Username string
	Email    string
	Password string
}

func (f Form) credentials() client.Credentials {
	return client.Credentials{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

type Service struct {
	api    AuthAPI
	sess   *session.Holder
	notify notify.Notifier
	log    zerolog.Logger

	mu        sync.Mutex
	loggingIn bool
	signingUp bool
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(api AuthAPI, sess *session.Holder, n notify.Notifier, opts ...Option) *Service {
	if n == nil {
		n = notify.Discard
	}
	s := &Service{api: api, sess: sess, notify: n, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Busy reports whether a login or signup request is outstanding.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggingIn || s.signingUp
}

// Login validates f, stopping at the first bad field, then signs in and starts
// the session.
func (s *Service) Login(ctx context.Context, f Form) (session.Session, error) {
	if err := validate.Login(f.Username, f.Email, f.Password); err != nil {
		s.notify.Notify(notify.Rejected("Validation Error", err.Error()))
		return session.Session{}, err
	}

	if !s.begin(&s.loggingIn) {
		return session.Session{}, ErrBusy
	}
	res, err := s.api.Login(ctx, f.credentials())
	s.end(&s.loggingIn)

	if err != nil {
		s.log.Warn().Err(err).Msg("login")
		if client.IsAPIError(err) {
			s.notify.Notify(notify.Failed("Login failed. Please try again."))
		} else {
			s.notify.Notify(notify.Failed("An error occurred. Please try again."))
		}
		return session.Session{}, fmt.Errorf("login: %w", err)
	}

	cur := s.sess.Start(res.OwnerID, res.User)
	s.log.Info().Str("owner", cur.OwnerID).Msg("logged in")
	s.notify.Notify(notify.Succeeded("Logged in successfully!"))
	return cur, nil
}

// Signup validates every field of f and registers the account. Field problems
// come back as validate.FieldErrors without a notice; the form shows them
// next to the inputs.
func (s *Service) Signup(ctx context.Context, f Form) error {
	if err := validate.Signup(f.Username, f.Email, f.Password); err != nil {
		return err
	}

	if !s.begin(&s.signingUp) {
		return ErrBusy
	}
	_, err := s.api.Register(ctx, f.credentials())
	s.end(&s.signingUp)

	if err != nil {
		s.log.Warn().Err(err).Msg("signup")
		switch {
		case client.IsAPIError(err):
			msg, ok := client.ServerMessage(err)
			if !ok {
				msg = "Signup failed."
			}
			s.notify.Notify(notify.Failed(msg))
		default:
			s.notify.Notify(notify.Failed("An error occurred. Please try again later."))
		}
		return fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("username", strings.TrimSpace(f.Username)).Msg("signed up")
	s.notify.Notify(notify.Succeeded("You have signed up successfully!"))
	return nil
}

func (s *Service) Logout() {
	if cur, ok := s.sess.Current(); ok {
		s.log.Info().Str("owner", cur.OwnerID).Msg("logged out")
	}
	s.sess.Clear()
}

func (s *Service) begin(flag *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (s *Service) end(flag *bool) {
	s.mu.Lock()
	*flag = false
	s.mu.Unlock()
}

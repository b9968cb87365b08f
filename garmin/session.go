package garmin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/briangreenhill/garminplanner/store"
)

const (
	TokenURL  = "https://connectapi.garmin.com/oauth-service/oauth/token"
	ClientID  = "garmin-connect-mobile"
	TokenFile = ".garminplanner_token.json"
)

var (
	// ErrNoToken is returned by a TokenStore that holds no token.
	ErrNoToken = errors.New("no stored token")
	// ErrMissingCredentials means no token could be resumed and no
	// email/password pair was configured to log in with.
	ErrMissingCredentials = errors.New("garmin email and password are required")
)

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(*oauth2.Token) error
}

// FileTokenStore keeps the token as JSON in a file readable only by the user.
type FileTokenStore struct {
	Path string
}

// DefaultTokenPath returns the token file location in the user's home directory.
func DefaultTokenPath() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, TokenFile), nil
}

func (s FileTokenStore) Load() (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := store.ReadJSON(s.Path, &tok); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	return &tok, nil
}

func (s FileTokenStore) Save(tok *oauth2.Token) error {
	return store.WriteJSON(s.Path, tok, 0o600)
}

// MemoryTokenStore holds the token in memory.
type MemoryTokenStore struct {
	mu  sync.Mutex
	tok *oauth2.Token
}

func (s *MemoryTokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return nil, ErrNoToken
	}
	t := *s.tok
	return &t, nil
}

func (s *MemoryTokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *tok
	s.tok = &t
	return nil
}

// Credentials configure a Session.
type Credentials struct {
	Email    string
	Password string
	ClientID string
	TokenURL string
}

// Session owns the OAuth2 token: it resumes the stored token, logs in with
// the password grant when there is none and saves every refreshed token.
type Session struct {
	config   oauth2.Config
	email    string
	password string
	store    TokenStore
	base     http.RoundTripper
	logger   zerolog.Logger
}

// NewSession creates a session. GET responses are cached in memory for the
// life of the session.
func NewSession(creds Credentials, tokens TokenStore, logger zerolog.Logger) *Session {
	if creds.ClientID == "" {
		creds.ClientID = ClientID
	}
	if creds.TokenURL == "" {
		creds.TokenURL = TokenURL
	}
	return &Session{
		config: oauth2.Config{
			ClientID: creds.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  creds.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		email:    creds.Email,
		password: creds.Password,
		store:    tokens,
		base:     httpcache.NewMemoryCacheTransport(),
		logger:   logger,
	}
}

// Login returns an authenticated HTTP client.
func (s *Session) Login(ctx context.Context) (*http.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: s.base})

	tok, err := s.store.Load()
	switch {
	case err == nil && (tok.Valid() || tok.RefreshToken != ""):
		s.logger.Debug().Time("expiry", tok.Expiry).Msg("resuming stored session")
	case err != nil && !errors.Is(err, ErrNoToken):
		s.logger.Warn().Err(err).Msg("ignoring unreadable stored token")
		tok = nil
	default:
		tok = nil
	}

	if tok == nil {
		if s.email == "" || s.password == "" {
			return nil, ErrMissingCredentials
		}
		tok, err = s.config.PasswordCredentialsToken(ctx, s.email, s.password)
		if err != nil {
			return nil, fmt.Errorf("garmin login: %w", err)
		}
		if err := s.store.Save(tok); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
		s.logger.Info().Str("email", s.email).Msg("logged in to Garmin Connect")
	}

	src := &savingTokenSource{
		src:    s.config.TokenSource(ctx, tok),
		store:  s.store,
		last:   tok.AccessToken,
		logger: s.logger,
	}
	return oauth2.NewClient(ctx, src), nil
}

// savingTokenSource persists tokens the underlying source refreshes.
type savingTokenSource struct {
	mu     sync.Mutex
	src    oauth2.TokenSource
	store  TokenStore
	last   string
	logger zerolog.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.store.Save(tok); err != nil {
			s.logger.Warn().Err(err).Msg("failed to save refreshed token")
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

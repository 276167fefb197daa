// Package gcal mirrors a day's schedule into Google Calendar.
package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the OAuth client downloaded from the Google Cloud
	// console, placed in the config directory.
	ClientSecretsFile = "credentials.json"
	// TokenFile caches the user's access and refresh token.
	TokenFile = "google_token.json"
	// CallbackAddr receives the OAuth redirect.
	CallbackAddr = "127.0.0.1:6789"

	callbackPath = "/oauth2callback"
)

var (
	// ErrNoCredentials is returned when the client secret file is missing.
	ErrNoCredentials = errors.New("google client secret not found")
	// ErrNotAuthorized is returned when no token has been cached yet.
	ErrNotAuthorized = errors.New("google calendar not authorized, run `timebox auth google`")
)

// Scopes requested from the user.
var Scopes = []string{calendar.CalendarEventsScope}

// LoadConfig reads the OAuth client from configDir.
func LoadConfig(configDir string) (*oauth2.Config, error) {
	path := filepath.Join(configDir, ClientSecretsFile)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: expected %s", ErrNoCredentials, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret: %w", err)
	}
	return cfg, nil
}

// LoadToken reads the cached token from configDir.
func LoadToken(configDir string) (*oauth2.Token, error) {
	b, err := os.ReadFile(filepath.Join(configDir, TokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotAuthorized
	}
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return tok, nil
}

// SaveToken writes tok to configDir, readable by the owner only.
func SaveToken(configDir string, tok *oauth2.Token) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, TokenFile), b, 0o600)
}

// savingSource re-caches the token whenever the wrapped source refreshes it.
type savingSource struct {
	src       oauth2.TokenSource
	configDir string
	last      string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := SaveToken(s.configDir, tok); err != nil {
			log.Warn("could not cache refreshed google token", "err", err)
		}
	}
	return tok, nil
}

// NewService returns an authenticated Calendar service using the cached
// token in configDir.
func NewService(ctx context.Context, configDir string) (*calendar.Service, error) {
	cfg, err := LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(configDir)
	if err != nil {
		return nil, err
	}
	src := &savingSource{
		src:       cfg.TokenSource(ctx, tok),
		configDir: configDir,
		last:      tok.AccessToken,
	}
	srv, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.ReuseTokenSource(tok, src)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return srv, nil
}

// Authorizer runs the installed-app authorization code flow with a
// loopback redirect.
type Authorizer struct {
	Config *oauth2.Config
	// Addr is the loopback listen address. Defaults to CallbackAddr.
	Addr string
	// OnURL is called with the consent URL the user must open.
	OnURL func(string)
	// Timeout bounds the wait for the redirect. Defaults to 5 minutes.
	Timeout time.Duration
}

type callback struct {
	code string
	err  error
}

// Authorize waits for the user to grant access and exchanges the code for
// a token.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	addr := a.Addr
	if addr == "" {
		addr = CallbackAddr
	}
	timeout := a.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for oauth redirect on %s: %w", addr, err)
	}
	defer ln.Close()

	cfg := *a.Config
	cfg.RedirectURL = "http://" + ln.Addr().String() + callbackPath
	state := uuid.NewString()

	results := make(chan callback, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callback
		switch {
		case q.Get("state") != state:
			res.err = errors.New("oauth state mismatch")
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("authorization code missing from redirect")
		default:
			res.code = q.Get("code")
		}
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "timebox is authorized. You can close this window.")
		}
		select {
		case results <- res:
		default:
		}
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = server.Serve(ln) }()
	defer server.Shutdown(context.Background())

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	if a.OnURL != nil {
		a.OnURL(authURL)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := cfg.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("exchanging authorization code: %w", err)
		}
		return tok, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}
}

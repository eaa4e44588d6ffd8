package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	"teachassist/internal/errs"
)

// OAuthConfig builds the OAuth2 configuration for calendar access.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	if redirectURL == "" {
		redirectURL = "http://localhost:8089/callback"
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{gcal.CalendarScope},
		RedirectURL:  redirectURL,
	}
}

// tokenPath returns the cached-token location under the config dir.
func tokenPath(cfgDir string) string { return filepath.Join(cfgDir, "calendar-token.json") }

// SaveToken persists an OAuth token for later runs.
func SaveToken(cfgDir string, tok *oauth2.Token) error {
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(cfgDir), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// LoadTokenSource reads the cached token and wraps it in a refreshing token
// source. Returns errs.ErrNotAuthenticated when no token has been cached yet.
func LoadTokenSource(ctx context.Context, cfg *oauth2.Config, cfgDir string) (oauth2.TokenSource, error) {
	b, err := os.ReadFile(tokenPath(cfgDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrNotAuthenticated
		}
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("parse cached token: %w", err)
	}
	return cfg.TokenSource(ctx, &tok), nil
}

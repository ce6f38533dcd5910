// Package oauth implements the Google and Apple sign-in flows.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the identity a provider hands back after a successful exchange.
type Profile struct {
	Email      string
	Name       string
	PictureURL string
}

// GoogleProvider drives the Google authorization code flow.
type GoogleProvider struct {
	cfg  *oauth2.Config
	http *resty.Client
}

// NewGoogle builds a Google provider. Missing credentials produce a disabled
// provider; the routes stay registered but refuse to start a flow.
func NewGoogle(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL + "/api/auth/google/callback",
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		http: resty.New().SetTimeout(10 * time.Second),
	}
}

// Enabled reports whether both client credentials are configured.
func (p *GoogleProvider) Enabled() bool {
	return p.cfg.ClientID != "" && p.cfg.ClientSecret != ""
}

// AuthURL returns the consent page URL carrying the CSRF state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and fetches the profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange: %w", err)
	}

	res, err := p.http.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("google userinfo: status %d", res.StatusCode())
	}

	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(res.Body(), &info); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("google userinfo: no email in profile")
	}

	return &Profile{Email: info.Email, Name: info.Name, PictureURL: info.Picture}, nil
}

package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	appleAuthURL  = "https://appleid.apple.com/auth/authorize"
	appleTokenURL = "https://appleid.apple.com/auth/token"
	appleAudience = "https://appleid.apple.com"
)

// AppleProvider drives the Sign in with Apple code flow. Apple has no static
// client secret; each token request is signed with the team's ES256 key.
type AppleProvider struct {
	clientID    string
	teamID      string
	keyID       string
	privateKey  string
	callbackURL string
	http        *resty.Client
}

// NewApple builds an Apple provider. privateKeyPEM is the p8 signing key,
// with literal "\n" sequences tolerated for env-var friendliness.
func NewApple(clientID, teamID, keyID, privateKeyPEM, callbackURL string) *AppleProvider {
	return &AppleProvider{
		clientID:    clientID,
		teamID:      teamID,
		keyID:       keyID,
		privateKey:  strings.ReplaceAll(privateKeyPEM, `\n`, "\n"),
		callbackURL: callbackURL + "/api/auth/apple/callback",
		http:        resty.New().SetTimeout(10 * time.Second),
	}
}

// Enabled reports whether all four Apple credentials are configured.
func (p *AppleProvider) Enabled() bool {
	return p.clientID != "" && p.teamID != "" && p.keyID != "" && p.privateKey != ""
}

// AuthURL returns the Apple consent page URL. Apple requires form_post when
// the name or email scope is requested, so the callback arrives as a POST.
func (p *AppleProvider) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.callbackURL)
	q.Set("response_type", "code")
	q.Set("response_mode", "form_post")
	q.Set("scope", "name email")
	q.Set("state", state)
	return appleAuthURL + "?" + q.Encode()
}

// clientSecret signs a short-lived ES256 JWT that stands in for the client
// secret in the token request.
func (p *AppleProvider) clientSecret() (string, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(p.privateKey))
	if err != nil {
		return "", fmt.Errorf("apple private key: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": p.teamID,
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": appleAudience,
		"sub": p.clientID,
	})
	token.Header["kid"] = p.keyID

	return token.SignedString(key)
}

// Exchange trades the authorization code for tokens and reads the identity
// from the returned ID token. The token comes straight from Apple over TLS,
// so its claims are parsed without a second signature check.
func (p *AppleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	secret, err := p.clientSecret()
	if err != nil {
		return nil, err
	}

	res, err := p.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     p.clientID,
			"client_secret": secret,
			"code":          code,
			"grant_type":    "authorization_code",
			"redirect_uri":  p.callbackURL,
		}).
		Post(appleTokenURL)
	if err != nil {
		return nil, fmt.Errorf("apple token exchange: %w", err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("apple token exchange: status %d", res.StatusCode())
	}

	var body struct {
		IDToken string `json:"id_token"`
	}
	if err := json.Unmarshal(res.Body(), &body); err != nil || body.IDToken == "" {
		return nil, fmt.Errorf("apple token exchange: missing id_token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(body.IDToken, claims); err != nil {
		return nil, fmt.Errorf("apple id_token: %w", err)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("apple id_token: no email claim")
	}

	// Apple only sends the user's name on the first authorization, via the
	// callback form body, not the ID token. Fall back to the mailbox name.
	name, _, _ := strings.Cut(email, "@")

	return &Profile{Email: email, Name: name}, nil
}

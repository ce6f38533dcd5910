package oauth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/url"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGoogleProvider_AuthURL(t *testing.T) {
	p := NewGoogle("client-id", "client-secret", "http://localhost:5000")
	assert.True(t, p.Enabled())

	authURL := p.AuthURL("state-token")
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("Failed to parse auth URL: %v", err)
	}
	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-token", q.Get("state"))
	assert.Equal(t, "http://localhost:5000/api/auth/google/callback", q.Get("redirect_uri"))
}

func TestGoogleProvider_Disabled(t *testing.T) {
	p := NewGoogle("", "", "http://localhost:5000")
	assert.False(t, p.Enabled())
}

func testAppleKeyPEM(t *testing.T) (string, *ecdsa.PublicKey) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("Failed to marshal key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	return string(pemBytes), &key.PublicKey
}

func TestAppleProvider_ClientSecret(t *testing.T) {
	keyPEM, pub := testAppleKeyPEM(t)
	p := NewApple("com.example.genie", "TEAM123456", "KEY1234567", keyPEM, "http://localhost:5000")
	assert.True(t, p.Enabled())

	secret, err := p.clientSecret()
	assert.NoError(t, err)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(secret, claims, func(tok *jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{"ES256"}))
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "TEAM123456", claims["iss"])
	assert.Equal(t, "com.example.genie", claims["sub"])
	assert.Equal(t, appleAudience, claims["aud"])
	assert.Equal(t, "KEY1234567", token.Header["kid"])
}

func TestAppleProvider_AuthURL(t *testing.T) {
	keyPEM, _ := testAppleKeyPEM(t)
	p := NewApple("com.example.genie", "TEAM123456", "KEY1234567", keyPEM, "http://localhost:5000")

	parsed, err := url.Parse(p.AuthURL("state-token"))
	if err != nil {
		t.Fatalf("Failed to parse auth URL: %v", err)
	}
	q := parsed.Query()
	assert.Equal(t, "com.example.genie", q.Get("client_id"))
	assert.Equal(t, "form_post", q.Get("response_mode"))
	assert.Equal(t, "name email", q.Get("scope"))
	assert.Equal(t, "state-token", q.Get("state"))
}

// AngelaMos | 2026
// firebase_test.go

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

const testProject = "lifelog-test"

type signer struct {
	private jwk.Key
	public  jwk.Set
}

func newSigner(t *testing.T, kid string) *signer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	private, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, private.Set(jwk.KeyIDKey, kid))
	require.NoError(t, private.Set(jwk.AlgorithmKey, jwa.RS256()))

	public, err := private.PublicKey()
	require.NoError(t, err)

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(public))

	return &signer{private: private, public: set}
}

type claims struct {
	issuer   string
	audience string
	subject  string
	email    string
	expires  time.Time
}

func validClaims() claims {
	return claims{
		issuer:   issuerPrefix + testProject,
		audience: testProject,
		subject:  "uid-123",
		email:    "Ada@Example.com",
		expires:  time.Now().Add(time.Hour),
	}
}

func (s *signer) sign(t *testing.T, c claims) string {
	t.Helper()

	b := jwt.NewBuilder().
		Issuer(c.issuer).
		Audience([]string{c.audience}).
		IssuedAt(time.Now().Add(-time.Minute)).
		Expiration(c.expires)
	if c.subject != "" {
		b = b.Subject(c.subject)
	}
	if c.email != "" {
		b = b.Claim("email", c.email).Claim("email_verified", true)
	}

	tok, err := b.Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), s.private))
	require.NoError(t, err)

	return string(signed)
}

func TestVerifyIDToken(t *testing.T) {
	s := newSigner(t, "kid-1")
	other := newSigner(t, "kid-1")

	verifier, err := NewFirebaseVerifier(testProject, StaticKeySource{Set: s.public})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name:  "valid token",
			token: func() string { return s.sign(t, validClaims()) },
		},
		{
			name: "expired",
			token: func() string {
				c := validClaims()
				c.expires = time.Now().Add(-time.Hour)
				return s.sign(t, c)
			},
			wantErr: core.ErrTokenExpired,
		},
		{
			name: "wrong audience",
			token: func() string {
				c := validClaims()
				c.audience = "another-project"
				return s.sign(t, c)
			},
			wantErr: core.ErrTokenInvalid,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := validClaims()
				c.issuer = "https://evil.example.com/" + testProject
				return s.sign(t, c)
			},
			wantErr: core.ErrTokenInvalid,
		},
		{
			name: "missing email",
			token: func() string {
				c := validClaims()
				c.email = ""
				return s.sign(t, c)
			},
			wantErr: core.ErrTokenInvalid,
		},
		{
			name:    "signed by unknown key",
			token:   func() string { return other.sign(t, validClaims()) },
			wantErr: core.ErrTokenInvalid,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.jwt" },
			wantErr: core.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := verifier.VerifyIDToken(context.Background(), tt.token())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErr == core.ErrTokenInvalid {
					assert.NotErrorIs(t, err, core.ErrTokenExpired)
				}
				assert.Nil(t, identity)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "uid-123", identity.UID)
			assert.Equal(t, "ada@example.com", identity.Email)
			assert.True(t, identity.EmailVerified)
		})
	}
}

type countingKeySource struct {
	set       jwk.Set
	refreshes atomic.Int32
}

func (c *countingKeySource) Keys(context.Context) (jwk.Set, error) {
	return c.set, nil
}

func (c *countingKeySource) Refresh(context.Context) (jwk.Set, error) {
	c.refreshes.Add(1)
	return c.set, nil
}

func TestVerifyIDTokenRefreshesOnlyForNonExpiry(t *testing.T) {
	s := newSigner(t, "kid-1")

	t.Run("wrong issuer retries with fresh keys", func(t *testing.T) {
		keys := &countingKeySource{set: s.public}
		verifier, err := NewFirebaseVerifier(testProject, keys)
		require.NoError(t, err)

		c := validClaims()
		c.issuer = "https://evil.example.com/x"

		_, err = verifier.VerifyIDToken(context.Background(), s.sign(t, c))
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
		assert.NotErrorIs(t, err, core.ErrTokenExpired)
		assert.Equal(t, int32(1), keys.refreshes.Load())
	})

	t.Run("expired token skips refresh", func(t *testing.T) {
		keys := &countingKeySource{set: s.public}
		verifier, err := NewFirebaseVerifier(testProject, keys)
		require.NoError(t, err)

		c := validClaims()
		c.expires = time.Now().Add(-time.Hour)

		_, err = verifier.VerifyIDToken(context.Background(), s.sign(t, c))
		assert.ErrorIs(t, err, core.ErrTokenExpired)
		assert.Zero(t, keys.refreshes.Load())
	})
}

func TestRemoteKeySourceCachesAndRefreshes(t *testing.T) {
	s := newSigner(t, "kid-remote")

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.public)
	}))
	defer srv.Close()

	source := NewRemoteKeySource(srv.URL, time.Hour)
	verifier, err := NewFirebaseVerifier(testProject, source)
	require.NoError(t, err)

	for range 3 {
		_, err := verifier.VerifyIDToken(context.Background(), s.sign(t, validClaims()))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	_, err = verifier.VerifyIDToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.Equal(t, int32(1), hits.Load(), "refresh is throttled")
}

func TestProjectIDFromServiceKey(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(
		[]byte(`{"type":"service_account","project_id":"lifelog-prod"}`),
	)

	id, err := ProjectIDFromServiceKey(encoded)
	require.NoError(t, err)
	assert.Equal(t, "lifelog-prod", id)

	_, err = ProjectIDFromServiceKey("")
	assert.Error(t, err)

	_, err = ProjectIDFromServiceKey("%%%")
	assert.Error(t, err)

	_, err = ProjectIDFromServiceKey(base64.StdEncoding.EncodeToString([]byte(`{}`)))
	assert.Error(t, err)
}

func TestNewFirebaseVerifierRequiresProject(t *testing.T) {
	_, err := NewFirebaseVerifier("", StaticKeySource{})
	assert.Error(t, err)
}

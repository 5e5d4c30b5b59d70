// AngelaMos | 2026
// firebase.go

package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/Taslimapopi/lifelog-server/internal/config"
	"github.com/Taslimapopi/lifelog-server/internal/core"
	"github.com/Taslimapopi/lifelog-server/internal/middleware"
)

const (
	issuerPrefix       = "https://securetoken.google.com/"
	minRefreshInterval = time.Minute
	clockSkew          = 30 * time.Second
)

// KeySource supplies the key set Firebase ID tokens are signed with.
type KeySource interface {
	Keys(ctx context.Context) (jwk.Set, error)
	Refresh(ctx context.Context) (jwk.Set, error)
}

// RemoteKeySource fetches Google's securetoken JWKS and keeps it in memory
// for ttl. Refresh is throttled to minRefreshInterval so a flood of tokens
// with unknown kids cannot hammer the endpoint.
type RemoteKeySource struct {
	url    string
	ttl    time.Duration
	client *http.Client

	mu        sync.Mutex
	set       jwk.Set
	fetchedAt time.Time
}

func NewRemoteKeySource(url string, ttl time.Duration) *RemoteKeySource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RemoteKeySource{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RemoteKeySource) Keys(ctx context.Context) (jwk.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.set, nil
	}
	return s.fetchLocked(ctx)
}

func (s *RemoteKeySource) Refresh(ctx context.Context) (jwk.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set != nil && time.Since(s.fetchedAt) < minRefreshInterval {
		return s.set, nil
	}
	return s.fetchLocked(ctx)
}

func (s *RemoteKeySource) fetchLocked(ctx context.Context) (jwk.Set, error) {
	set, err := jwk.Fetch(ctx, s.url, jwk.WithHTTPClient(s.client))
	if err != nil {
		if s.set != nil {
			slog.WarnContext(ctx, "jwks refresh failed, serving stale keys",
				"error", err,
			)
			return s.set, nil
		}
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	s.set = set
	s.fetchedAt = time.Now()
	return set, nil
}

// StaticKeySource serves a fixed key set.
type StaticKeySource struct {
	Set jwk.Set
}

func (s StaticKeySource) Keys(context.Context) (jwk.Set, error) {
	return s.Set, nil
}

func (s StaticKeySource) Refresh(context.Context) (jwk.Set, error) {
	return s.Set, nil
}

type FirebaseVerifier struct {
	projectID string
	keys      KeySource
}

func NewFirebaseVerifier(projectID string, keys KeySource) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	if keys == nil {
		return nil, errors.New("firebase key source is required")
	}
	return &FirebaseVerifier{projectID: projectID, keys: keys}, nil
}

// NewFirebaseVerifierFromConfig resolves the project id (directly or from
// the service account key) and wires the remote JWKS source.
func NewFirebaseVerifierFromConfig(cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		id, err := ProjectIDFromServiceKey(cfg.ServiceKey)
		if err != nil {
			return nil, err
		}
		projectID = id
	}

	return NewFirebaseVerifier(
		projectID,
		NewRemoteKeySource(cfg.JWKSURL, cfg.KeysTTL),
	)
}

func (v *FirebaseVerifier) ProjectID() string {
	return v.projectID
}

func (v *FirebaseVerifier) VerifyIDToken(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	set, err := v.keys.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	parsed, err := v.parse(token, set)
	if err != nil && !isTokenExpiredError(err) {
		// The signing key may have rotated since the last fetch.
		if fresh, refreshErr := v.keys.Refresh(ctx); refreshErr == nil {
			parsed, err = v.parse(token, fresh)
		}
	}
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify id token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify id token: %v: %w", err, core.ErrTokenInvalid)
	}

	return identityFromToken(parsed)
}

func (v *FirebaseVerifier) parse(token string, set jwk.Set) (jwt.Token, error) {
	return jwt.Parse(
		[]byte(token),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithAcceptableSkew(clockSkew),
	)
}

func identityFromToken(token jwt.Token) (*middleware.Identity, error) {
	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify id token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf(
			"verify id token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var verified bool
	//nolint:errcheck // email_verified is optional
	_ = token.Get("email_verified", &verified)

	return &middleware.Identity{
		UID:           subject,
		Email:         strings.ToLower(email),
		EmailVerified: verified,
	}, nil
}

func isTokenExpiredError(err error) bool {
	return errors.Is(err, jwt.TokenExpiredError())
}

type serviceAccount struct {
	ProjectID string `json:"project_id"`
}

// ProjectIDFromServiceKey decodes a base64 encoded service account JSON
// and returns its project_id.
func ProjectIDFromServiceKey(encoded string) (string, error) {
	if encoded == "" {
		return "", errors.New("firebase service key is empty")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("decode service key: %w", err)
	}

	var sa serviceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return "", fmt.Errorf("parse service key: %w", err)
	}

	if sa.ProjectID == "" {
		return "", errors.New("service key has no project_id")
	}

	return sa.ProjectID, nil
}

var _ middleware.IdentityVerifier = (*FirebaseVerifier)(nil)

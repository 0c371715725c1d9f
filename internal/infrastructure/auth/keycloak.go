package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// PrincipalClaims is the subset of JWT claims the service cares about.
type PrincipalClaims struct {
	Subject           string
	Issuer            string
	Audience          []string
	PreferredUsername string
	Email             string
	Name              string
	Roles             []string
	ExpiresAt         time.Time
	IssuedAt          time.Time
	NotBefore         time.Time
}

// KeycloakValidator validates JWT tokens against a Keycloak JWKS endpoint.
type KeycloakValidator struct {
	issuer       string
	audience     string
	jwksURL      string
	refreshEvery time.Duration
	clockSkew    time.Duration
	log          zerolog.Logger
	jwks         atomic.Pointer[keyfunc.JWKS]
}

const (
	jwksRetryInterval   = time.Second
	jwksRetryMaxBackoff = 10 * time.Second
	jwksRetryTimeout    = 2 * time.Minute
)

// NewKeycloakValidator fetches the JWKS and returns a validator. The key set
// keeps refreshing in the background for the lifetime of ctx.
func NewKeycloakValidator(
	ctx context.Context,
	jwksURL, issuer, audience string,
	refreshEvery, clockSkew time.Duration,
	log zerolog.Logger,
) (*KeycloakValidator, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}

	v := &KeycloakValidator{
		issuer:       issuer,
		audience:     audience,
		jwksURL:      jwksURL,
		refreshEvery: refreshEvery,
		clockSkew:    clockSkew,
		log:          log.With().Str("component", "keycloak-validator").Logger(),
	}
	if err := v.initJWKS(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *KeycloakValidator) initJWKS(ctx context.Context) error {
	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   v.refreshEvery,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh failed")
		},
	}

	backoff := jwksRetryInterval
	deadline := time.Now().Add(jwksRetryTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	for attempt := 1; ; attempt++ {
		jwks, err := keyfunc.Get(v.jwksURL, options)
		if err == nil {
			v.jwks.Store(jwks)
			return nil
		}

		v.log.Warn().
			Err(err).
			Str("jwks_url", v.jwksURL).
			Int("attempt", attempt).
			Msg("initial jwks fetch failed, retrying")

		if time.Now().After(deadline) {
			return fmt.Errorf("fetch jwks: %w", err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("fetch jwks: %w", ctx.Err())
		case <-time.After(backoff):
		}
		if next := backoff * 2; next <= jwksRetryMaxBackoff {
			backoff = next
		} else {
			backoff = jwksRetryMaxBackoff
		}
	}
}

// Ready reports whether the JWKS has been loaded.
func (v *KeycloakValidator) Ready() bool {
	return v.jwks.Load() != nil
}

// Validate parses and validates a JWT, returning its principal claims.
func (v *KeycloakValidator) Validate(_ context.Context, rawToken string) (*PrincipalClaims, error) {
	jwks := v.jwks.Load()
	if jwks == nil {
		return nil, errors.New("jwks not initialised")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	token, err := parser.ParseWithClaims(rawToken, jwt.MapClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	iss, _ := mapClaims["iss"].(string)
	if iss != v.issuer {
		return nil, fmt.Errorf("issuer mismatch %s", iss)
	}

	audiences, err := v.checkAudience(mapClaims["aud"])
	if err != nil {
		return nil, err
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return nil, errors.New("sub claim missing")
	}

	var roles []string
	if realmAccess, ok := mapClaims["realm_access"].(map[string]any); ok {
		if rawRoles, ok := realmAccess["roles"].([]interface{}); ok {
			for _, role := range rawRoles {
				if s, ok := role.(string); ok {
					roles = append(roles, s)
				}
			}
		}
	}

	expires := jwtNumericTime(mapClaims["exp"])
	notBefore := jwtNumericTime(mapClaims["nbf"])

	now := time.Now().UTC()
	if !expires.IsZero() && now.After(expires.Add(v.clockSkew)) {
		return nil, errors.New("token expired")
	}
	if !notBefore.IsZero() && now.Add(v.clockSkew).Before(notBefore) {
		return nil, errors.New("token not yet valid")
	}

	preferredUsername, _ := mapClaims["preferred_username"].(string)
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)

	return &PrincipalClaims{
		Subject:           sub,
		Issuer:            iss,
		Audience:          audiences,
		PreferredUsername: preferredUsername,
		Email:             email,
		Name:              name,
		Roles:             roles,
		ExpiresAt:         expires,
		IssuedAt:          jwtNumericTime(mapClaims["iat"]),
		NotBefore:         notBefore,
	}, nil
}

func (v *KeycloakValidator) checkAudience(audRaw any) ([]string, error) {
	if audRaw == nil {
		return nil, nil
	}
	switch val := audRaw.(type) {
	case string:
		if val != v.audience {
			return nil, errors.New("audience mismatch")
		}
		return []string{val}, nil
	case []interface{}:
		var audiences []string
		found := false
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s == v.audience {
					found = true
				}
				audiences = append(audiences, s)
			}
		}
		if !found {
			return nil, errors.New("audience mismatch")
		}
		return audiences, nil
	default:
		return nil, fmt.Errorf("aud claim unsupported type %T", val)
	}
}

func jwtNumericTime(value any) time.Time {
	switch timeValue := value.(type) {
	case float64:
		return time.Unix(int64(timeValue), 0).UTC()
	case int64:
		return time.Unix(timeValue, 0).UTC()
	case json.Number:
		if unixTime, err := timeValue.Int64(); err == nil {
			return time.Unix(unixTime, 0).UTC()
		}
	}
	return time.Time{}
}

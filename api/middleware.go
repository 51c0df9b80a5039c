package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/config"
	"github.com/linesmerrill/crime-report-api/models"
	"github.com/linesmerrill/crime-report-api/services"
)

// TokenCacheTTL bounds how long a verified token is trusted without checking its signature again
const TokenCacheTTL = 5 * time.Minute

var errTokenRevoked = errors.New("token revoked")

// Authenticator turns bearer session tokens into the principal of a request
type Authenticator struct {
	guardian auth.Authenticator
	revoked  store.Cache
	tokens   *services.TokenIssuer
	identity *services.IdentityService
}

// NewAuthenticator sets up go-guardian with a cached bearer strategy verifying session tokens
func NewAuthenticator(tokens *services.TokenIssuer, identity *services.IdentityService, tokenTTL time.Duration) *Authenticator {
	a := &Authenticator{
		tokens:   tokens,
		identity: identity,
		revoked:  store.NewFIFO(context.Background(), tokenTTL),
	}
	cache := store.NewFIFO(context.Background(), TokenCacheTTL)
	a.guardian = auth.New()
	a.guardian.EnableStrategy(bearer.CachedStrategyKey, bearer.New(a.verifyToken, cache))
	return a
}

// verifyToken is called by go-guardian for tokens missing from its cache
func (a *Authenticator) verifyToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	if _, revoked, _ := a.revoked.Load(token, r); revoked {
		return nil, errTokenRevoked
	}
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return auth.NewDefaultUser(claims.Subject, claims.Subject, nil, nil), nil
}

// principal authenticates r and resolves the caller. A nil principal with a nil error means
// the token is valid but its subject no longer matches a user.
func (a *Authenticator) principal(r *http.Request) (*models.Principal, error) {
	info, err := a.guardian.Authenticate(r)
	if err != nil {
		return nil, models.NewError(models.CodeUnauthenticated, err.Error())
	}
	ctx, cancel := WithQueryTimeout(r.Context())
	defer cancel()
	return a.identity.Resolve(ctx, info.ID())
}

// Middleware rejects requests without a valid bearer token and stores the caller in the
// request context
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		a.serve(w, r, next)
	})
}

// OptionalMiddleware lets anonymous requests through and authenticates the rest
func (a *Authenticator) OptionalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		a.serve(w, r, next)
	})
}

func (a *Authenticator) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	p, err := a.principal(r)
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		zap.S().Warnw("unauthorized", "url", r.URL, "error", err)
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
		return
	case err != nil:
		config.ErrorStatus("failed to resolve caller", http.StatusInternalServerError, w, err)
		return
	case p == nil:
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, models.ErrUnauthenticated)
		return
	}
	zap.S().Debugw("user authenticated", "userId", p.ID.Hex(), "role", p.Role)
	next.ServeHTTP(w, r.WithContext(services.WithPrincipal(r.Context(), p)))
}

// PrincipalFromToken authenticates a raw token, for clients such as browsers opening a
// websocket that cannot set an Authorization header
func (a *Authenticator) PrincipalFromToken(r *http.Request, token string) (*models.Principal, error) {
	clone := r.Clone(r.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	p, err := a.principal(clone)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, models.ErrUnauthenticated
	}
	return p, nil
}

// Remember caches a freshly issued token for its subject so the first request skips
// signature verification
func (a *Authenticator) Remember(r *http.Request, token, subject string) error {
	strategy := a.guardian.Strategy(bearer.CachedStrategyKey)
	return auth.Append(strategy, token, auth.NewDefaultUser(subject, subject, nil, nil), r)
}

// RevokeToken invalidates the bearer token of the request
func (a *Authenticator) RevokeToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		config.ErrorStatus("missing bearer token", http.StatusBadRequest, w, models.ErrUnauthenticated)
		return
	}

	if err := a.revoked.Store(token, true, r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusInternalServerError, w, err)
		return
	}
	strategy := a.guardian.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(strategy, token, r); err != nil {
		zap.S().Warnw("failed to drop token from cache", "error", err)
	}
	w.Write([]byte(`{"revoked": true}`))
}

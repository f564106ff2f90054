package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/samber/lo"

	"github.com/danmasta/rbac/decisionlog"
)

// ClaimsExtractorFunc extracts identity claims from an HTTP request.
type ClaimsExtractorFunc func(r *http.Request) (Claims, error)

// AuthenticatedFunc reports whether the request carries an authenticated
// identity. The check itself belongs to the host's authentication layer;
// the middleware only translates a false answer into a 401-style denial.
type AuthenticatedFunc func(r *http.Request) bool

// SkipFunc reports whether authorization should be skipped for a request.
type SkipFunc func(r *http.Request) bool

// ErrorHandlerFunc renders a denied request.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareConfig configures authorization middleware behavior.
type MiddlewareConfig struct {
	Authorizer    *Authorizer           // decision engine, required
	Claims        ClaimsExtractorFunc   // claims lookup (defaults to ContextClaimsExtractor)
	Authenticated AuthenticatedFunc     // optional authentication probe; false short-circuits to 401
	ClaimKeys     []string              // narrows candidate lookup for these routes
	Skip          SkipFunc              // optional request filter to bypass authorization
	RedirectURL   string                // when set, denials redirect here instead of rendering a status
	RedirectParam string                // query param carrying the original URL (defaults to "redirect")
	ErrorHandler  ErrorHandlerFunc      // denial rendering (defaults to DefaultErrorHandler)
	Logger        *slog.Logger          // optional denial logging
	Recorder      *decisionlog.Recorder // optional decision audit trail
}

// RequirePermissions guards routes behind a permission conjunction: the
// identity's candidate roles must collectively satisfy every listed
// permission. Claims are read from the request context.
func RequirePermissions(authorizer *Authorizer, permissions ...string) func(http.Handler) http.Handler {
	return RequirePermissionsWithConfig(MiddlewareConfig{Authorizer: authorizer}, permissions...)
}

// RequirePermissionsWithConfig is RequirePermissions with custom behavior.
func RequirePermissionsWithConfig(config MiddlewareConfig, permissions ...string) func(http.Handler) http.Handler {
	return require(config, decisionlog.DecisionPermissions, permissions, func(claims Claims) error {
		return config.Authorizer.AuthorizeByPermissions(claims, permissions, config.ClaimKeys...)
	})
}

// RequireRoles guards routes behind a role disjunction: holding any one of
// the listed roles grants access.
func RequireRoles(authorizer *Authorizer, roleIDs ...string) func(http.Handler) http.Handler {
	return RequireRolesWithConfig(MiddlewareConfig{Authorizer: authorizer}, roleIDs...)
}

// RequireRolesWithConfig is RequireRoles with custom behavior.
func RequireRolesWithConfig(config MiddlewareConfig, roleIDs ...string) func(http.Handler) http.Handler {
	return require(config, decisionlog.DecisionRoles, roleIDs, func(claims Claims) error {
		return config.Authorizer.AuthorizeByRoles(claims, roleIDs, config.ClaimKeys...)
	})
}

func require(config MiddlewareConfig, decision decisionlog.Decision, requested []string, check func(Claims) error) func(http.Handler) http.Handler {
	if config.Authorizer == nil {
		panic("rbac: middleware requires an authorizer")
	}
	if config.Claims == nil {
		config.Claims = ContextClaimsExtractor
	}
	if config.ErrorHandler == nil {
		config.ErrorHandler = DefaultErrorHandler
	}
	if config.RedirectParam == "" {
		config.RedirectParam = "redirect"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Skip != nil && config.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if config.Authenticated != nil && !config.Authenticated(r) {
				config.deny(w, r, decision, requested, nil, ErrUnauthenticated)
				return
			}

			claims, err := config.Claims(r)
			if err != nil {
				config.deny(w, r, decision, requested, nil, errors.Join(ErrUnauthenticated, err))
				return
			}
			if err := check(claims); err != nil {
				config.deny(w, r, decision, requested, claims, err)
				return
			}

			config.record(r, decision, requested, claims, nil)
			next.ServeHTTP(w, r)
		})
	}
}

func (c MiddlewareConfig) deny(w http.ResponseWriter, r *http.Request, decision decisionlog.Decision, requested []string, claims Claims, err error) {
	c.record(r, decision, requested, claims, err)
	if c.Logger != nil {
		c.Logger.WarnContext(r.Context(), "authorization denied",
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method),
			slog.Any("error", err),
		)
	}
	if c.RedirectURL != "" {
		redirectDenied(w, r, c.RedirectURL, c.RedirectParam)
		return
	}
	c.ErrorHandler(w, r, err)
}

// record forwards the decision to the audit recorder. Recording failures are
// logged but never affect the response; the decision already happened.
func (c MiddlewareConfig) record(r *http.Request, decision decisionlog.Decision, requested []string, claims Claims, denial error) {
	if c.Recorder == nil {
		return
	}
	candidates := lo.Map(c.Authorizer.CandidateRoles(claims, c.ClaimKeys...), func(role *Role, _ int) string {
		return role.ID()
	})
	meta := []decisionlog.EventOption{
		decisionlog.WithMetadata("path", r.URL.Path),
		decisionlog.WithMetadata("method", r.Method),
	}

	var err error
	if denial == nil {
		err = c.Recorder.Allowed(r.Context(), decision, requested, candidates, meta...)
	} else {
		var authzErr *AuthorizationError
		missing := requested
		if errors.As(denial, &authzErr) {
			switch decision {
			case decisionlog.DecisionPermissions:
				missing = authzErr.MissingPermissions
			case decisionlog.DecisionRoles:
				missing = authzErr.MissingRoles
			}
		}
		err = c.Recorder.Denied(r.Context(), decision, requested, missing, candidates, meta...)
	}
	if err != nil && c.Logger != nil {
		c.Logger.ErrorContext(r.Context(), "decision recording failed", slog.Any("error", err))
	}
}

// DefaultErrorHandler maps denial errors onto HTTP statuses: 401 for missing
// authentication, 403 for everything else.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrUnauthenticated) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	http.Error(w, err.Error(), http.StatusForbidden)
}

func redirectDenied(w http.ResponseWriter, r *http.Request, rawURL, param string) {
	target, err := url.Parse(rawURL)
	if err != nil {
		http.Error(w, ErrUnauthorized.Error(), http.StatusForbidden)
		return
	}
	query := target.Query()
	query.Set(param, r.URL.RequestURI())
	target.RawQuery = query.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// ContextClaimsExtractor returns the claims placed on the request context by
// the host's authentication middleware. Missing claims are not an extraction
// error; the decision layer reports them as ErrNoClaims.
func ContextClaimsExtractor(r *http.Request) (Claims, error) {
	claims, _ := GetClaims(r.Context())
	return claims, nil
}

// HeaderClaimsExtractor reads claims from a JSON payload in a request
// header, the shape auth proxies use to forward verified identities. The
// location is a path into the payload, such as "user".
func HeaderClaimsExtractor(header, location string) ClaimsExtractorFunc {
	return func(r *http.Request) (Claims, error) {
		payload := r.Header.Get(header)
		if payload == "" {
			return nil, ErrNoClaims
		}
		return ClaimsFromJSON([]byte(payload), location)
	}
}

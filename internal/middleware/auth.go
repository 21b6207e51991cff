package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/agencyhub/internal/errs"
	"github.com/deppfellow/agencyhub/internal/server"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware holds the app Server so middleware can access shared deps
// like Logger and Config.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth is an Echo middleware that enforces authentication using
// Clerk.
//
// Behavior:
//  1. Wraps Clerk's middleware that parses the Authorization header.
//  2. If Clerk fails auth, AuthorizationFailureHandler emits a JSON 401.
//  3. If Clerk succeeds, session claims are extracted from request context
//     and resolved into a typed Identity {user, role, agency}.
//  4. A request without an active agency (organization) is rejected: every
//     downstream query is scoped by agency, so there is nothing valid such
//     a request could do.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			// Called when the bearer token is missing or invalid. Clerk's
			// handler writes the response directly, bypassing Echo's error
			// funnel, so the JSON shape is built by hand here.
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				start := time.Now()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)

				response := errs.NewUnauthorizedError("Unauthorized", false)
				if err := json.NewEncoder(w).Encode(response); err != nil {
					auth.server.Logger.Error().
						Err(err).
						Str("function", "RequireAuth").
						Dur("duration", time.Since(start)).
						Msg("failed to write JSON response")
				}
			}))))(
		// Runs only when the Clerk middleware let the request through.
		func(c echo.Context) error {
			start := time.Now()

			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				auth.server.Logger.Error().
					Str("function", "RequireAuth").
					Str("request_id", GetRequestID(c)).
					Dur("duration", time.Since(start)).
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			if claims.ActiveOrganizationID == "" {
				auth.server.Logger.Warn().
					Str("function", "RequireAuth").
					Str("user_id", claims.Subject).
					Str("request_id", GetRequestID(c)).
					Msg("authenticated user has no active agency")

				return errs.NewUnauthorizedError("No active agency for this session", false)
			}

			identity := &Identity{
				UserID:   claims.Subject,
				Role:     NormalizeRole(claims.ActiveOrganizationRole),
				AgencyID: claims.ActiveOrganizationID,
			}
			SetIdentity(c, identity)

			// The context enhancer ran before authentication, so the
			// request-scoped logger is enriched with the identity here.
			AttachIdentityLogFields(c, identity)

			// String keys kept for the request logger and tracing
			// middleware, which read them after the handler returns.
			c.Set(UserIDKey, identity.UserID)
			c.Set(UserRoleKey, string(identity.Role))

			auth.server.Logger.Info().
				Str("function", "RequireAuth").
				Str("user_id", identity.UserID).
				Str("agency_id", identity.AgencyID).
				Str("request_id", GetRequestID(c)).
				Dur("duration", time.Since(start)).
				Msg("user authenticated successfully")

			return next(c)
		})
}

// RequireRole builds a route middleware that allows only callers whose
// role is in the given allow-list.
//
// It must run after RequireAuth. A missing identity is treated as
// unauthenticated (401); an authenticated caller with a role outside the
// allow-list is rejected with 403 before the handler body runs.
func (auth *AuthMiddleware) RequireRole(roles ...Role) echo.MiddlewareFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := GetIdentity(c)
			if !ok {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			if _, ok := allowed[identity.Role]; !ok {
				auth.server.Logger.Warn().
					Str("function", "RequireRole").
					Str("user_id", identity.UserID).
					Str("user_role", string(identity.Role)).
					Str("request_id", GetRequestID(c)).
					Str("path", c.Path()).
					Msg("caller role not in endpoint allow-list")

				return errs.NewForbiddenError("You do not have permission to perform this action", false)
			}

			return next(c)
		}
	}
}

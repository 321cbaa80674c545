package middleware

import (
	"net/http"
	"strings"

	"propwire/infrastructure/config"
	"propwire/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Authenticate validates a bearer token and injects the user into the
// request context, where the shared `auth` prop picks it up.
//
// Outside production, an empty JWT_SECRET switches to a fixed development
// user so the demo pages work without a token issuer.
func Authenticate(cfg *config.Config, logger *zap.Logger) func(next http.Handler) http.Handler {
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		logger.Warn("JWT_SECRET not set, using development user")
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := common.WithUserID(r.Context(), "dev-user")
				ctx = common.WithUserName(ctx, "Development User")
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithExpirationRequired(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				respondUnauthorized(w, "Invalid token")
				return
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				respondUnauthorized(w, "Token missing subject")
				return
			}

			ctx := common.WithUserID(r.Context(), sub)
			if name, ok := claims["name"].(string); ok {
				ctx = common.WithUserName(ctx, name)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondUnauthorized writes a 401 JSON error
func respondUnauthorized(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, message)
}

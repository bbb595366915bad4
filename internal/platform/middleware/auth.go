package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "ptacheck/pkg/domain-errors"
	"ptacheck/pkg/platform/httputil"
	"ptacheck/pkg/requestcontext"
)

// TokenValidator checks a bearer token and returns the caller's subject.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// HMACValidator accepts HS256/384/512 tokens signed with a shared key.
type HMACValidator struct {
	signingKey []byte
}

func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{signingKey: []byte(signingKey)}
}

func (v *HMACValidator) ValidateToken(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims.Subject, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			subject, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithSubject(ctx, subject)))
		})
	}
}

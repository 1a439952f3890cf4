package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anish/devshowcase/internal/api/respond"
	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AccessTokenCookie is where the browser client carries the access token.
const AccessTokenCookie = "accessToken"

// Auth validates the access token from the accessToken cookie, falling back
// to an Authorization bearer header, and stores the caller's identity in the
// request context.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				respond.Error(w, domain.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.ParseAccessToken(tokenStr)
			if err != nil {
				respond.Error(w, err)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.Subject)
			if err != nil {
				respond.Error(w, domain.Unauthorized("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (primitive.ObjectID, bool) {
	userID, ok := ctx.Value(UserIDKey).(primitive.ObjectID)
	return userID, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/internal/service"
	"github.com/abira1/nijhum-deep/internal/utils"
)

// authenticate is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, validates it via [service.AuthService.ParseToken], and on success
// stores the authenticated user's ID and admin flag in the request context
// under [utils.UserIDCtxKey] and [utils.AdminCtxKey] before delegating to
// the next handler.
//
// Requests are rejected with HTTP 401 Unauthorized when the header is
// absent, cannot be parsed as a bearer token, or the token is expired or
// otherwise invalid.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		claims, err := h.authService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Msg("token expired")
				http.Error(w, service.ErrTokenIsExpired.Error(), http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// downstream handlers read the identity from the context instead of
		// re-parsing the token
		if userID, parseErr := strconv.ParseInt(claims.Subject, 10, 64); parseErr == nil {
			ctx = context.WithValue(ctx, utils.UserIDCtxKey, userID)
		}
		ctx = context.WithValue(ctx, utils.AdminCtxKey, claims.Admin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token from an Authorization
// header value.
func getTokenFromAuthHeader(header string) (string, error) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

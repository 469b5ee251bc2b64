package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/abira1/nijhum-deep/internal/clock"
	"github.com/abira1/nijhum-deep/internal/logger"
	"github.com/abira1/nijhum-deep/models"
)

// AllowAll is the permissive [PermissionProvider] used by deployments that
// do not gate mutations.
var AllowAll = PermissionFunc(func(string, models.OperationKind, models.Date) bool {
	return true
})

// AccessClaims is the token claim set the permission provider understands.
// Admin mirrors the server's is_admin flag at token issue time.
type AccessClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// jwtPermissionProvider implements [PermissionProvider] on signed bearer
// tokens. The rule: anyone may mutate the current (or a future) date, but a
// mutation addressed at a past date is privileged and requires a valid
// token carrying the admin claim. Sealed days therefore stay immutable for
// regular users even against replayed requests.
type jwtPermissionProvider struct {
	signKey []byte
	issuer  string
	clock   *clock.Service
	logger  *logger.Logger
}

// NewJWTPermissionProvider constructs the default [PermissionProvider].
func NewJWTPermissionProvider(signKey, issuer string, clockSvc *clock.Service, logger *logger.Logger) PermissionProvider {
	return &jwtPermissionProvider{
		signKey: []byte(signKey),
		issuer:  issuer,
		clock:   clockSvc,
		logger:  logger,
	}
}

// CanMutate implements [PermissionProvider].
func (p *jwtPermissionProvider) CanMutate(actorToken string, kind models.OperationKind, date models.Date) bool {
	if !p.clock.IsPast(date) {
		return true
	}

	if actorToken == "" {
		return false
	}

	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(actorToken, claims,
		func(token *jwt.Token) (any, error) { return p.signKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
	)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("func", "jwtPermissionProvider.CanMutate").
			Str("kind", string(kind)).
			Str("date", date.String()).
			Msg("rejecting past-date mutation: token not valid")
		return false
	}

	return claims.Admin
}

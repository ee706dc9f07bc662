package util

import (
	"interrogator/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	TeamID *uint `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Tenant() model.Tenant {
	return model.TenantFromColumn(c.TeamID)
}

func GenerateJWT(subject string, tenant model.Tenant, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		TeamID: tenant.Column(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func GetClaimsFromContext(c *gin.Context) *Claims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// TenantFromContext is the tenant of the authenticated caller, global when
// the request carries no team.
func TenantFromContext(c *gin.Context) model.Tenant {
	claims := GetClaimsFromContext(c)
	if claims == nil {
		return model.GlobalTenant
	}
	return claims.Tenant()
}

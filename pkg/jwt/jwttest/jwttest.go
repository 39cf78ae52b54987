// Package jwttest firma tokens para pruebas. El código de producción no lo importa.
package jwttest

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/bodega-api/pkg/jwt"
)

// Sign firma con HS256 un token para id que vence en ttl (negativo: ya vencido).
func Sign(secret, issuer string, id jwt.Identity, ttl time.Duration) (string, error) {
	return SignAt(secret, issuer, id, time.Now(), ttl)
}

// SignAt igual que Sign pero con fecha de emisión explícita.
func SignAt(secret, issuer string, id jwt.Identity, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  gojwt.NewNumericDate(issuedAt),
			ExpiresAt: gojwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID:    id.UserID,
		CompanyID: id.CompanyID,
		Role:      id.Role,
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

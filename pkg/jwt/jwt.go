// Package jwt valida los tokens de acceso emitidos por el servicio de identidad.
// La API sólo verifica; no emite tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role rol del usuario dentro de la empresa.
type Role string

// Roles conocidos.
const (
	RoleAdmin     Role = "admin"
	RoleBodeguero Role = "bodeguero"
	RoleVendedor  Role = "vendedor"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return true
	}
	return false
}

// Claims formato del token: claims estándar más empresa y rol.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
}

// Identity quién hace la petición.
type Identity struct {
	UserID    string
	CompanyID string
	Role      Role
}

// Identity extrae la identidad; sin user_id se usa sub.
func (c *Claims) Identity() Identity {
	uid := c.UserID
	if uid == "" {
		uid = c.Subject
	}
	return Identity{UserID: uid, CompanyID: c.CompanyID, Role: c.Role}
}

// ErrMissingCompany token válido pero sin empresa.
var ErrMissingCompany = errors.New("jwt: token sin company_id")

// Verifier valida firma HS256, expiración y, si se configuró, emisor y antigüedad máxima.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
	maxAge time.Duration
	now    func() time.Time
}

// NewVerifier construye el verificador. issuer vacío acepta cualquier emisor;
// maxAge 0 no limita la antigüedad (iat).
func NewVerifier(secret, issuer string, maxAge time.Duration) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(opts...), maxAge: maxAge, now: time.Now}, nil
}

// Verify valida el token y devuelve la identidad que transporta.
func (v *Verifier) Verify(token string) (Identity, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return Identity{}, fmt.Errorf("jwt: %w", err)
	}
	if v.maxAge > 0 && claims.IssuedAt != nil && v.now().Sub(claims.IssuedAt.Time) > v.maxAge {
		return Identity{}, fmt.Errorf("jwt: token emitido hace más de %s", v.maxAge)
	}
	if claims.CompanyID == "" {
		return Identity{}, ErrMissingCompany
	}
	return claims.Identity(), nil
}

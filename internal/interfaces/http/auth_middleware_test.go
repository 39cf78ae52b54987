package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/bodega-api/pkg/jwt"
	"github.com/jhoicas/bodega-api/pkg/jwt/jwttest"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "bodega-api-test"
)

func testVerifier() *pkgjwt.Verifier {
	v, err := pkgjwt.NewVerifier(testJWTSecret, testIssuer, 0)
	if err != nil {
		panic(err)
	}
	return v
}

// tokenForRole genera el header Authorization para un usuario de la empresa de prueba.
func tokenForRole(t *testing.T, role pkgjwt.Role) string {
	t.Helper()
	tok, err := jwttest.Sign(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

// doWithHeader llama al router con el header Authorization tal cual (vacío: sin header).
func (e *handlerEnv) doWithHeader(t *testing.T, authHeader, method, path string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(raw)
}

func TestAuth_TokenAusenteOInvalidoRetorna401(t *testing.T) {
	env := newHandlerEnv()
	otroEmisor, err := jwttest.Sign(testJWTSecret, "otro-servicio",
		pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: pkgjwt.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	vencido, err := jwttest.Sign(testJWTSecret, testIssuer,
		pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: pkgjwt.RoleAdmin}, -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin esquema Bearer", "Token abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"otro emisor", "Bearer " + otroEmisor, "INVALID_TOKEN"},
		{"vencido", "Bearer " + vencido, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.doWithHeader(t, tc.header, http.MethodGet, "/api/alerts/unread-count")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, body, tc.code)
		})
	}
	env.alerts.AssertNotCalled(t, "CountUnread", mock.Anything, mock.Anything)
}

func TestAuth_TokenSinRolRetorna401(t *testing.T) {
	env := newHandlerEnv()

	resp, body := env.do(t, "", http.MethodGet, "/api/alerts/unread-count", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_ROLE")
}

func TestAuth_RolesRestringidosPorRuta(t *testing.T) {
	cases := []struct {
		name   string
		role   pkgjwt.Role
		method string
		path   string
	}{
		{"vendedor no abre conteos", pkgjwt.RoleVendedor, http.MethodPost, "/api/counts"},
		{"vendedor no lista conteos", pkgjwt.RoleVendedor, http.MethodGet, "/api/counts"},
		{"vendedor no registra merma", pkgjwt.RoleVendedor, http.MethodPost, "/api/waste"},
		{"vendedor no edita stock", pkgjwt.RoleVendedor, http.MethodPatch, "/api/products/" + testProductID + "/stock"},
		{"vendedor no aprueba devoluciones", pkgjwt.RoleVendedor, http.MethodPost, "/api/returns/" + testProductID + "/approve"},
		{"bodeguero no sincroniza", pkgjwt.RoleBodeguero, http.MethodPost, "/api/inventory/sync"},
		{"vendedor no sincroniza", pkgjwt.RoleVendedor, http.MethodPost, "/api/inventory/sync"},
		{"rol desconocido", pkgjwt.Role("auditor"), http.MethodGet, "/api/alerts/unread-count"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newHandlerEnv()
			resp, body := env.do(t, tc.role, tc.method, tc.path, `{}`)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Contains(t, body, "FORBIDDEN")
		})
	}
}

// Los tres roles leen alertas; la empresa y el usuario salen del token.
func TestAuth_ClaimsLleganAlCasoDeUso(t *testing.T) {
	for _, role := range []pkgjwt.Role{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, pkgjwt.RoleVendedor} {
		t.Run(string(role), func(t *testing.T) {
			env := newHandlerEnv()
			env.alerts.On("CountUnread", mock.Anything, testCompanyID).Return(1, nil).Once()

			resp, body := env.do(t, role, http.MethodGet, "/api/alerts/unread-count", "")

			require.Equal(t, http.StatusOK, resp.StatusCode, body)
			var out map[string]int
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			assert.Equal(t, 1, out["unread"])
			env.alerts.AssertExpectations(t)
		})
	}
}

package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-editor/internal/application/dto"
	"github.com/jhoicas/invoice-editor/internal/application/editor"
	"github.com/jhoicas/invoice-editor/internal/domain/entity"
	"github.com/jhoicas/invoice-editor/internal/infrastructure/memory"
	"github.com/jhoicas/invoice-editor/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-editor/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/invoice-editor/internal/interfaces/http"
	"github.com/jhoicas/invoice-editor/pkg/jwt"
	"github.com/jhoicas/invoice-editor/pkg/logger"
)

// buildAPI monta el router completo con repositorio en memoria y generadores reales.
func buildAPI(t *testing.T, secret string, limit *apphttp.ExportRateLimiter) *fiber.App {
	t.Helper()
	repo := memory.NewSessionRepository()
	maroto := pdf.NewMarotoPDFGenerator()
	excel := xlsx.NewExcelExporter()
	sessions := editor.NewSessionUseCase(repo, maroto, excel,
		editor.JWTConfig{Secret: secret, ExpMinutes: testExpMin, Issuer: testIssuer},
		editor.SessionConfig{}, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SessionUC:   sessions,
		RenderUC:    editor.NewRenderUseCase(maroto, excel),
		ExportLimit: limit,
		JWTSecret:   secret,
		ServiceName: "invoice-editor-test",
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func session(t *testing.T, resp *http.Response) dto.SessionResponse {
	t.Helper()
	var out dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	resp := call(t, buildAPI(t, "", nil), http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCountries_NombresSegunIdioma(t *testing.T) {
	resp := call(t, buildAPI(t, "", nil), http.MethodGet, "/api/countries?lang=es", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []dto.CountryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Contains(t, list, dto.CountryResponse{Code: "DE", Name: "Alemania"})
}

func TestFlujo_CrearEditarExportar(t *testing.T) {
	app := buildAPI(t, testJWTSecret, nil)

	resp := call(t, app, http.MethodPost, "/api/invoices", "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := session(t, resp)
	require.NotEmpty(t, created.Token)
	base := "/api/invoices/" + created.ID

	resp = call(t, app, http.MethodPatch, base+"/fields", created.Token, dto.SetFieldRequest{Name: "companyName", Value: "ACME"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, base+"/lines/0", created.Token, dto.UpdateLineRequest{Field: "quantity", Value: "2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = call(t, app, http.MethodPatch, base+"/lines/0", created.Token, dto.UpdateLineRequest{Field: "rate", Value: "50"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	enabled, percent := true, 10.0
	resp = call(t, app, http.MethodPut, base+"/tax", created.Token, dto.AdjustmentRequest{Enabled: &enabled, Percent: &percent})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := session(t, resp)
	assert.Equal(t, "ACME", got.Document.Invoice.CompanyName)
	require.NotNil(t, got.Document.TaxRow)
	assert.Equal(t, "10.00", got.Document.TaxRow.Amount)
	assert.Equal(t, "110.00", got.Document.Total.Amount)

	resp = call(t, app, http.MethodGet, base+"?mode=pdf", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, session(t, resp).Document.DiscountRow)

	resp = call(t, app, http.MethodGet, base+"/pdf", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, base+"/xlsx", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))

	resp = call(t, app, http.MethodDelete, base, created.Token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodGet, base, created.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFlujo_EdicionesRechazadas(t *testing.T) {
	app := buildAPI(t, "", nil)
	created := session(t, call(t, app, http.MethodPost, "/api/invoices", "", nil))
	base := "/api/invoices/" + created.ID

	resp := call(t, app, http.MethodDelete, base+"/lines/7", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "índice fuera de rango es un no-op")
	assert.Len(t, session(t, resp).Document.Lines, 1)

	resp = call(t, app, http.MethodDelete, base+"/lines/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPatch, base+"/fields", bytes.NewBufferString("{no-json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)

	resp = call(t, app, http.MethodGet, "/api/invoices/no-existe", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestShare_TokenSoloExporta(t *testing.T) {
	app := buildAPI(t, testJWTSecret, nil)
	created := session(t, call(t, app, http.MethodPost, "/api/invoices", "", nil))
	base := "/api/invoices/" + created.ID

	resp := call(t, app, http.MethodPost, base+"/share", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var share dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&share))
	require.NotEmpty(t, share.Token)

	resp = call(t, app, http.MethodGet, base, share.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, base+"/lines", share.Token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, base+"/lines", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUploadLogo_Multipart(t *testing.T) {
	app := buildAPI(t, "", nil)
	created := session(t, call(t, app, http.MethodPost, "/api/invoices", "", nil))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/"+created.ID+"/logo", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, session(t, resp).Document.Invoice.Logo, "data:image/png;base64,")
}

func TestRender_SinSesionYConLimite(t *testing.T) {
	app := buildAPI(t, "", apphttp.NewExportRateLimiter(0.001, 1))
	in := dto.RenderRequest{Invoice: entity.Invoice{
		ProductLines: []entity.ProductLine{{Quantity: "1", Rate: "10"}},
	}}

	resp := call(t, app, http.MethodPost, "/api/render/xlsx", "", in)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/render/pdf", "", in)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRenovacion_EdicionDevuelveTokenNuevo(t *testing.T) {
	app := buildAPI(t, testJWTSecret, nil)
	created := session(t, call(t, app, http.MethodPost, "/api/invoices", "", nil))
	base := "/api/invoices/" + created.ID

	resp := call(t, app, http.MethodPost, base+"/lines", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	renewed := resp.Header.Get(apphttp.HeaderEditToken)
	require.NotEmpty(t, renewed)
	sessionID, scope, err := jwt.Parse(testJWTSecret, renewed)
	require.NoError(t, err)
	assert.Equal(t, created.ID, sessionID)
	assert.Equal(t, jwt.ScopeEdit, scope)

	resp = call(t, app, http.MethodGet, base, renewed, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "el token renovado sirve para la sesión")
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderEditToken))

	resp = call(t, app, http.MethodPatch, base+"/lines/0", created.Token, map[string]string{"field": "nope", "value": "1"})
	assert.GreaterOrEqual(t, resp.StatusCode, fiber.StatusBadRequest)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderEditToken), "sin renovación cuando la petición falla")
}

func TestRenovacion_TokenDeExportacionNoSeRenueva(t *testing.T) {
	app := buildAPI(t, testJWTSecret, nil)
	created := session(t, call(t, app, http.MethodPost, "/api/invoices", "", nil))
	base := "/api/invoices/" + created.ID

	resp := call(t, app, http.MethodPost, base+"/share", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var share dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&share))

	resp = call(t, app, http.MethodGet, base, share.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderEditToken))
}

func TestRefreshToken_Endpoint(t *testing.T) {
	app := buildAPI(t, testJWTSecret, nil)
	created := session(t, call(t, app, http.MethodPost, "/api/invoices", "", nil))
	base := "/api/invoices/" + created.ID

	resp := call(t, app, http.MethodPost, base+"/token", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	_, scope, err := jwt.Parse(testJWTSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.ScopeEdit, scope)

	resp = call(t, app, http.MethodPost, base+"/share", created.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var share dto.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&share))

	resp = call(t, app, http.MethodPost, base+"/token", share.Token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "un token de exportación no obtiene uno de edición")

	resp = call(t, app, http.MethodDelete, base, created.Token, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderEditToken))
}

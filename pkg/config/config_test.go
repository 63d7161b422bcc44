package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-editor/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "invoice-editor", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "$", cfg.Invoice.Currency)
	assert.Equal(t, 30, cfg.Invoice.DueDays)
	assert.Equal(t, 60, cfg.Session.TTLMinutes)
	assert.Equal(t, 2.0, cfg.Export.RatePerSecond)
	assert.Equal(t, 5, cfg.Export.Burst)
	assert.False(t, cfg.Invoice.StrictFields)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("INVOICE_CURRENCY", "COP")
	t.Setenv("INVOICE_TAX_PERCENT", "19")
	t.Setenv("INVOICE_STRICT_FIELDS", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "COP", cfg.Invoice.Currency)
	assert.Equal(t, 19.0, cfg.Invoice.TaxPercent)
	assert.True(t, cfg.Invoice.StrictFields)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoad_ValoresInvalidos(t *testing.T) {
	cases := map[string][2]string{
		"puerto fuera de rango": {"HTTP_PORT", "70000"},
		"días negativos":        {"INVOICE_DUE_DAYS", "-1"},
		"porcentaje negativo":   {"INVOICE_DISCOUNT_PERCENT", "-5"},
		"ttl cero":              {"SESSION_TTL_MINUTES", "0"},
		"burst cero":            {"EXPORT_BURST", "0"},
		"expiración jwt cero":   {"JWT_EXPIRATION_MINUTES", "0"},
		"expiración menor ttl":  {"JWT_EXPIRATION_MINUTES", "30"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExpiracionIgualAlTTLEsValida(t *testing.T) {
	t.Setenv("SESSION_TTL_MINUTES", "45")
	t.Setenv("JWT_EXPIRATION_MINUTES", "45")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.JWT.Expiration)
}

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Invoice InvoiceConfig
	Session SessionConfig
	Export  ExportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	SwaggerFile string // vacío = ./docs/swagger.json
}

// JWTConfig configuración de los tokens de sesión. Secret vacío = sin tokens ni guardia.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InvoiceConfig valores por defecto de las facturas nuevas.
type InvoiceConfig struct {
	Currency        string
	DueDays         int
	TaxPercent      float64 // 0 = impuesto desactivado
	DiscountPercent float64 // 0 = descuento desactivado
	TemplatePath    string  // YAML/JSON que sobrescribe la plantilla por defecto
	StrictFields    bool
}

// SessionConfig vida de las sesiones de edición en memoria.
type SessionConfig struct {
	TTLMinutes int
}

// ExportConfig límite de exportaciones PDF/XLSX por cliente.
type ExportConfig struct {
	RatePerSecond float64
	Burst         int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET, INVOICE_CURRENCY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "invoice-editor"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 120),
			Issuer:     getString(v, "JWT_ISSUER", "invoice-editor"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Invoice: InvoiceConfig{
			Currency:        getString(v, "INVOICE_CURRENCY", "$"),
			DueDays:         getInt(v, "INVOICE_DUE_DAYS", 30),
			TaxPercent:      getFloat(v, "INVOICE_TAX_PERCENT", 0),
			DiscountPercent: getFloat(v, "INVOICE_DISCOUNT_PERCENT", 0),
			TemplatePath:    getString(v, "INVOICE_TEMPLATE_PATH", ""),
			StrictFields:    getBool(v, "INVOICE_STRICT_FIELDS", false),
		},
		Session: SessionConfig{
			TTLMinutes: getInt(v, "SESSION_TTL_MINUTES", 60),
		},
		Export: ExportConfig{
			RatePerSecond: getFloat(v, "EXPORT_RATE_PER_SECOND", 2),
			Burst:         getInt(v, "EXPORT_BURST", 5),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT inválido: %d", c.HTTP.Port)
	}
	if c.Invoice.DueDays < 0 {
		return fmt.Errorf("config: INVOICE_DUE_DAYS no puede ser negativo")
	}
	if c.Invoice.TaxPercent < 0 || c.Invoice.DiscountPercent < 0 {
		return fmt.Errorf("config: los porcentajes por defecto no pueden ser negativos")
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("config: SESSION_TTL_MINUTES debe ser mayor que 0")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser mayor que 0")
	}
	// Un token renovado en la última petición debe cubrir la inactividad que la sesión tolera.
	if c.JWT.Expiration < c.Session.TTLMinutes {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES (%d) no puede ser menor que SESSION_TTL_MINUTES (%d)", c.JWT.Expiration, c.Session.TTLMinutes)
	}
	if c.Export.RatePerSecond <= 0 || c.Export.Burst <= 0 {
		return fmt.Errorf("config: EXPORT_RATE_PER_SECOND y EXPORT_BURST deben ser mayores que 0")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

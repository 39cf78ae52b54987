package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Alerts AlertsConfig
	Jobs   JobsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // nombre IANA o "local"
}

// Location devuelve la zona horaria usada para calcular días calendario.
// Un nombre inválido cae en time.Local.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	// Canal LISTEN/NOTIFY por el que llegan los cambios de productos, lotes y conteos.
	SnapshotChannel string
	AutoMigrate     bool // aplica las migraciones pendientes al arrancar la API
	MaxConns        int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // antigüedad máxima aceptada del token (iat), en minutos; 0 sin límite
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

// AlertsConfig umbrales del motor de alertas.
type AlertsConfig struct {
	DefaultMinStock int  // stock mínimo cuando el producto no define uno
	CriticalDays    int  // días hasta vencimiento para alerta crítica (FEFO)
	ProjectionDays  int  // horizonte del histograma de vencimientos
	StrictDates     bool // true: una fecha ilegible es error; false: se omite el registro
}

// JobsConfig tareas programadas (formato robfig/cron; vacío = deshabilitada).
type JobsConfig struct {
	SyncSchedule   string
	DigestSchedule string
	SyncWorkers    int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, EXPIRY_CRITICAL_DAYS, etc.
func Load() (*Config, error) {
	v := viper.New()

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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bodega-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "APP_TIMEZONE", "local"),
		},
		DB: DBConfig{
			DatabaseURL:     getString(v, "DATABASE_URL", ""),
			Host:            getString(v, "DB_HOST", "localhost"),
			Port:            getInt(v, "DB_PORT", 5432),
			User:            getString(v, "DB_USER", "postgres"),
			Password:        getString(v, "DB_PASSWORD", ""),
			DBName:          getString(v, "DB_NAME", "bodega"),
			SSLMode:         getString(v, "DB_SSLMODE", "disable"),
			SnapshotChannel: getString(v, "SNAPSHOT_CHANNEL", "inventory_changes"),
			AutoMigrate:     getBool(v, "DB_AUTO_MIGRATE", false),
			MaxConns:        getInt(v, "DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "bodega-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Alerts: AlertsConfig{
			DefaultMinStock: getInt(v, "ALERTS_DEFAULT_MIN_STOCK", 10),
			CriticalDays:    getInt(v, "EXPIRY_CRITICAL_DAYS", 7),
			ProjectionDays:  getInt(v, "EXPIRY_PROJECTION_DAYS", 30),
			StrictDates:     getBool(v, "EXPIRY_STRICT_DATES", false),
		},
		Jobs: JobsConfig{
			SyncSchedule:   getString(v, "SYNC_SCHEDULE", "@every 1h"),
			DigestSchedule: getString(v, "EXPIRY_DIGEST_SCHEDULE", "@daily"),
			SyncWorkers:    getInt(v, "SYNC_WORKERS", 4),
		},
	}

	if cfg.Alerts.CriticalDays < 0 || cfg.Alerts.ProjectionDays < cfg.Alerts.CriticalDays {
		return nil, fmt.Errorf("config: EXPIRY_PROJECTION_DAYS (%d) debe ser >= EXPIRY_CRITICAL_DAYS (%d) >= 0",
			cfg.Alerts.ProjectionDays, cfg.Alerts.CriticalDays)
	}
	if cfg.Jobs.SyncWorkers <= 0 {
		cfg.Jobs.SyncWorkers = 1
	}
	return cfg, nil
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

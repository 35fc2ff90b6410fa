package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	FeatureFlags  FeatureFlagsConfig
	Orders        OrdersConfig
	Visualization VisualizationConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Eventing      EventingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Visualization.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                string        `envconfig:"BOUQUET_APP_ENV" required:"true"`
	Port               string        `envconfig:"BOUQUET_APP_PORT" required:"true"`
	LogLevel           string        `envconfig:"BOUQUET_LOG_LEVEL" default:"info"`
	LogWarnStack       bool          `envconfig:"BOUQUET_LOG_WARN_STACK" default:"false"`
	LogFormat          string        `envconfig:"BOUQUET_LOG_FORMAT" default:"json"`
	CORSAllowedOrigins []string      `envconfig:"BOUQUET_CORS_ALLOWED_ORIGINS" default:"*"`
	IdempotencyTTL     time.Duration `envconfig:"BOUQUET_APP_IDEMPOTENCY_TTL" default:"24h"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// ConsoleLogs reports whether logs should use the human-readable writer.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(a.LogFormat, "console")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BOUQUET_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BOUQUET_DB_DSN"`
	Driver string `envconfig:"BOUQUET_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BOUQUET_DB_HOST"`
	Port     int    `envconfig:"BOUQUET_DB_PORT" default:"5432"`
	User     string `envconfig:"BOUQUET_DB_USER"`
	Password string `envconfig:"BOUQUET_DB_PASSWORD"`
	Name     string `envconfig:"BOUQUET_DB_NAME"`
	SSLMode  string `envconfig:"BOUQUET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BOUQUET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOUQUET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOUQUET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOUQUET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOUQUET_REDIS_URL"`
	Address      string        `envconfig:"BOUQUET_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"BOUQUET_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOUQUET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOUQUET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOUQUET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOUQUET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOUQUET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOUQUET_REDIS_WRITE_TIMEOUT" default:"5s"`
	CatalogTTL   time.Duration `envconfig:"BOUQUET_REDIS_CATALOG_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BOUQUET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BOUQUET_AUTO_MIGRATE" default:"false"`
}

// OrdersConfig holds the business knobs of the order composer.
type OrdersConfig struct {
	AllowEmptyBouquet      bool `envconfig:"BOUQUET_ORDERS_ALLOW_EMPTY_BOUQUET" default:"false"`
	MaxOrderNumberAttempts int  `envconfig:"BOUQUET_ORDERS_MAX_ORDER_NUMBER_ATTEMPTS" default:"3"`
	VisualizeOnOrder       bool `envconfig:"BOUQUET_ORDERS_VISUALIZE_ON_ORDER" default:"true"`
}

// VisualizationConfig points the gateway at the diffusion inference server.
type VisualizationConfig struct {
	Enabled        bool          `envconfig:"BOUQUET_VISUALIZATION_ENABLED" default:"true"`
	ModelURL       string        `envconfig:"BOUQUET_VISUALIZATION_MODEL_URL" default:"http://localhost:7860"`
	ModelName      string        `envconfig:"BOUQUET_VISUALIZATION_MODEL_NAME" default:"rupeshs/sdxs-512-0.9-openvino"`
	Width          int           `envconfig:"BOUQUET_VISUALIZATION_WIDTH" default:"512"`
	Height         int           `envconfig:"BOUQUET_VISUALIZATION_HEIGHT" default:"512"`
	Steps          int           `envconfig:"BOUQUET_VISUALIZATION_STEPS" default:"1"`
	GuidanceScale  float64       `envconfig:"BOUQUET_VISUALIZATION_GUIDANCE_SCALE" default:"1.0"`
	LoadTimeout    time.Duration `envconfig:"BOUQUET_VISUALIZATION_LOAD_TIMEOUT" default:"5m"`
	RenderTimeout  time.Duration `envconfig:"BOUQUET_VISUALIZATION_RENDER_TIMEOUT" default:"60s"`
	PlaceholderURL string        `envconfig:"BOUQUET_VISUALIZATION_PLACEHOLDER_URL" default:"https://via.placeholder.com/1024x1024.png?text=Bouquet+Visualization"`
}

func (v VisualizationConfig) validate() error {
	if strings.TrimSpace(v.PlaceholderURL) == "" {
		return fmt.Errorf("%s is required", EnvVisualizationPlaceholder)
	}
	if !v.Enabled {
		return nil
	}
	if _, err := url.ParseRequestURI(v.ModelURL); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvVisualizationModelURL, err)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("visualization dimensions must be positive")
	}
	return nil
}

type GCPConfig struct {
	ProjectID string `envconfig:"BOUQUET_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic               string `envconfig:"BOUQUET_PUBSUB_ORDERS_TOPIC" default:"bouquet-order-events"`
	VisualizationSubscription string `envconfig:"BOUQUET_PUBSUB_VISUALIZATION_SUBSCRIPTION" default:"bouquet-visualization-sub"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BOUQUET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BOUQUET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BOUQUET_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"BOUQUET_EVENTING_IDEMPOTENCY_TTL" default:"168h"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

package config

const EnvPrefix = "BOUQUET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultSQLiteDSN = "file:bouquet.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv   = "BOUQUET_APP_ENV"
	EnvPort     = "BOUQUET_APP_PORT"
	EnvLogLevel = "BOUQUET_LOG_LEVEL"

	EnvDBDSN  = "BOUQUET_DB_DSN"
	EnvDBHost = "BOUQUET_DB_HOST"
	EnvDBUser = "BOUQUET_DB_USER"
	EnvDBName = "BOUQUET_DB_NAME"

	EnvUseSQLite = "BOUQUET_USE_SQLITE"

	EnvRedisURL        = "BOUQUET_REDIS_URL"
	EnvRedisCatalogTTL = "BOUQUET_REDIS_CATALOG_TTL"

	EnvOrdersAllowEmpty = "BOUQUET_ORDERS_ALLOW_EMPTY_BOUQUET"

	EnvVisualizationEnabled     = "BOUQUET_VISUALIZATION_ENABLED"
	EnvVisualizationModelURL    = "BOUQUET_VISUALIZATION_MODEL_URL"
	EnvVisualizationPlaceholder = "BOUQUET_VISUALIZATION_PLACEHOLDER_URL"

	EnvPubSubOrdersTopic = "BOUQUET_PUBSUB_ORDERS_TOPIC"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

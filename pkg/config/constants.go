package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "STOCKTRACK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv = "STOCKTRACK_APP_ENV"
	EnvPort   = "STOCKTRACK_APP_PORT"

	EnvDBDSN  = "STOCKTRACK_DB_DSN"
	EnvDBHost = "STOCKTRACK_DB_HOST"
	EnvDBUser = "STOCKTRACK_DB_USER"
	EnvDBName = "STOCKTRACK_DB_NAME"

	EnvRedisURL = "STOCKTRACK_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

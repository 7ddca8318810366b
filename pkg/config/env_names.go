package config

// EnvPrefix is the prefix envconfig uses when scanning the environment.
const EnvPrefix = "modelmart"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, docs).
const (
	EnvAppEnv       = "MODELMART_APP_ENV"
	EnvPort         = "MODELMART_APP_PORT"
	EnvRecordDBDSN  = "MODELMART_RECORD_DB_DSN"
	EnvLedgerDBDSN  = "MODELMART_LEDGER_DB_DSN"
	EnvRedisURL     = "MODELMART_REDIS_URL"
	EnvJWTSecret    = "MODELMART_JWT_SECRET"
	EnvJWTIssuer    = "MODELMART_JWT_ISSUER"
	EnvJWTExpMins   = "MODELMART_JWT_EXPIRATION_MINUTES"
	EnvCORSOrigins  = "MODELMART_CORS_ALLOWED_ORIGINS"
	EnvDBHost       = "MODELMART_RECORD_DB_HOST"
	EnvDBUser       = "MODELMART_RECORD_DB_USER"
	EnvDBName       = "MODELMART_RECORD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

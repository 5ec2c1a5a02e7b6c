package config

const (
	EnvPrefix = "STOCKPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "STOCKPOS_APP_ENV"
	EnvListenAddr      = "STOCKPOS_LISTEN_ADDR"
	EnvLogLevel        = "STOCKPOS_LOG_LEVEL"
	EnvDBPath          = "STOCKPOS_DB_PATH"
	EnvDBBusyTimeout   = "STOCKPOS_DB_BUSY_TIMEOUT"
	EnvDBAutoMigrate   = "STOCKPOS_DB_AUTO_MIGRATE"
	EnvLowStockDefault = "STOCKPOS_LOW_STOCK_THRESHOLD"
	EnvDefaultMinStock = "STOCKPOS_DEFAULT_MIN_STOCK"
	EnvSeedSampleItems = "STOCKPOS_SEED_SAMPLE_ITEMS"
	EnvPBKDF2Iter      = "STOCKPOS_PBKDF2_ITERATIONS"
	EnvJWTSecret       = "STOCKPOS_JWT_SECRET"
	EnvJWTIssuer       = "STOCKPOS_JWT_ISSUER"
	EnvJWTExpMins      = "STOCKPOS_JWT_EXPIRATION_MINUTES"
	EnvAdminEmail      = "STOCKPOS_ADMIN_EMAIL"
	EnvAdminPassword   = "STOCKPOS_ADMIN_PASSWORD"
)

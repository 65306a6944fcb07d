package config

const (
	EnvPrefix = "CONFIGURATOR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DigestSHA256  = "sha256"
	DigestBlake2b = "blake2b"

	EnvAppEnv            = "CONFIGURATOR_APP_ENV"
	EnvPort              = "CONFIGURATOR_APP_PORT"
	EnvLogLevel          = "CONFIGURATOR_LOG_LEVEL"
	EnvAllowedOrigins    = "CONFIGURATOR_ALLOWED_ORIGINS"
	EnvRedisURL          = "CONFIGURATOR_REDIS_URL"
	EnvBackendBaseURL    = "CONFIGURATOR_BACKEND_BASE_URL"
	EnvBackendMultiDisc  = "CONFIGURATOR_BACKEND_MULTI_DISCOUNT"
	EnvCatalogCacheTTL   = "CONFIGURATOR_CATALOG_CACHE_TTL"
	EnvMaxUploadMB       = "CONFIGURATOR_MAX_UPLOAD_MB"
	EnvMediaDigest       = "CONFIGURATOR_MEDIA_DIGEST"
	EnvEncodeConcurrency = "CONFIGURATOR_ENCODE_CONCURRENCY"
	EnvSessionIdleTTL    = "CONFIGURATOR_SESSION_IDLE_TTL"
)

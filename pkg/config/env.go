package config

const (
	EnvAPIBaseURL = "TEBUTO_API_BASE_URL"
	EnvLogLevel   = "TEBUTO_LOG_LEVEL"
	EnvLogFormat  = "TEBUTO_LOG_FORMAT"
)

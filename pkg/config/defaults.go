package config

const (
	// DefaultAPIBaseURL is the production Tebuto API endpoint.
	DefaultAPIBaseURL = "https://api.tebuto.de"

	DefaultServiceName = "tebuto"
)

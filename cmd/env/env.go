package env

const (
	// Prefix is the environment prefix of the command flags,
	// ex. CURRCONV_DB for -db
	Prefix = "CURRCONV"

	// APIKey is the environment variable holding the exchangerate-api key
	APIKey = "API_KEY"
)

// Package config loads application configuration from environment variables
// and an optional .env file.
//
// Defaults are declared as struct tags on each section's Config type and
// registered in viper through reflection, so SERVER_SERVER_ID, DATABASE_HOST
// and friends all resolve without manual binding.
package config

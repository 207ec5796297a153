package server

// Config holds configuration for this server process.
type Config struct {
	// Port is the port where the HTTP API will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ServerID identifies this server in the shared player_sessions table.
	// Two processes must never share an id, or session exclusivity is lost.
	ServerID string `mapstructure:"server_id" default:""`
	// DefaultMaxStashes is the stash count applied to players without an
	// explicit per-player limit.
	DefaultMaxStashes int `mapstructure:"default_max_stashes" default:"3"`
}

// HasServerID reports whether a server identity is configured. Session
// claims are refused without one.
func (c Config) HasServerID() bool {
	return c.ServerID != ""
}

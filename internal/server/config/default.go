package config

// Default configuration values.
const (
	DefaultKVHost    = "0.0.0.0"
	DefaultKVPort    = 4000
	DefaultBacklog   = 10
	DefaultHTTPAddr  = "127.0.0.1:4080"
	DefaultSecret    = "admin123"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			KV: KVConfig{
				Host:    DefaultKVHost,
				Port:    DefaultKVPort,
				Backlog: DefaultBacklog,
			},
			HTTP: HTTPConfig{
				Enabled: false,
				Addr:    DefaultHTTPAddr,
			},
		},
		Auth: AuthSection{
			Secret: DefaultSecret,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

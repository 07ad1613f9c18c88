package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8080,
			CORSOrigin: "*",
		},
		Database: DatabaseConfig{
			URL: "sqlite://pickboard.db",
		},
		Page: PageConfig{
			OutputFile:            "public/index.html",
			PostsPerBatch:         5,
			InitialVisibleBatches: 1,
			MaxPosts:              30,
			PosterName:            "Donald J. Trump",
			PosterID:              "@realDonaldTrump",
			VoteAPIURL:            "/api/vote",
		},
		RateLimit: RateLimitConfig{
			Interval: "3s",
			Burst:    1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}

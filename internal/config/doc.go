// Package config handles configuration loading for the articles binaries.
//
// # Overview
//
// The server reads YAML and the client front-ends read TOML. Both expand
// ${VAR_NAME} references from the environment before parsing and validate
// the result.
//
// # Server Configuration
//
// Default location: $ARTICLES_SERVER_CONFIG, else
// $XDG_CONFIG_HOME/articles/server.yaml.
//
//	server:
//	  http_addr: "localhost:9000"
//
//	database:
//	  path: "/var/lib/articles/articles.db"
//	  seed_articles: true
//
//	auth:
//	  jwt_secret: "${ARTICLES_JWT_SECRET}"  # at least 32 bytes
//	  token_ttl: "24h"
//	  auto_register: true                   # create users on first login
//
//	ratelimit:
//	  login_rps: 1
//	  login_burst: 5
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Client Configuration
//
// Default location: $ARTICLES_CONFIG, else
// $XDG_CONFIG_HOME/articles/client.toml. A missing file means defaults.
//
//	[api]
//	base_url = "http://localhost:9000"
//	timeout = "30s"
//
//	[storage]
//	driver = "file"   # file, sqlite, memory
//	path = ""         # directory for file, database for sqlite
//
//	[logging]
//	level = "warn"
//	format = "text"
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax (ns, us, ms, s, m, h).
package config

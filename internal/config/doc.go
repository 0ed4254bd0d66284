// Package config handles configuration loading for consulta-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CONSULTA_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: ":8080"
//	  base_url: "https://consulta.example.com"
//
// Database:
//
//	database:
//	  path: "data/consulta.db"
//
// Visitor authentication:
//
//	auth:
//	  jwt_secret: "${CONSULTA_JWT_SECRET}"  # required
//	  token_ttl: "168h"
//
// Completion API:
//
//	openai:
//	  api_key: "${OPENAI_API_KEY}"  # required
//	  base_url: "https://api.openai.com/v1"
//	  model: "gpt-4o-mini"
//
// Admin panel (a bcrypt hash; leave empty to disable the admin surface):
//
//	admin:
//	  password_hash: "${CONSULTA_ADMIN_HASH}"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load("/etc/consulta/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

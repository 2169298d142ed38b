// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

/*
Package config loads GeoLens configuration with Koanf v2.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables, mapped explicitly to config keys by envTransformFunc

Example config.yaml:

	api:
	  base_url: https://media.example.com
	  timeout: 30s
	  skip_browser_warning: true
	breaker:
	  failure_ratio: 0.6
	query:
	  timezone: Europe/Berlin
	server:
	  port: 8787
	  cors_origins: ["http://localhost:5173"]
	logging:
	  level: debug
	  format: console

Equivalent environment:

	MEDIA_API_BASE_URL=https://media.example.com
	QUERY_TIMEZONE=Europe/Berlin
	HTTP_PORT=8787
	CORS_ORIGINS=http://localhost:5173
	LOG_LEVEL=debug

Load validates the merged result, so a returned *Config is always usable.
*/
package config

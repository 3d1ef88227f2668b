// Package config loads, normalizes, and validates pcsurvey configuration data.
//
// It supplies repository defaults (the column layout of the committee survey
// form, the roster topic remap tables, store location), expands user paths,
// reads TOML files, loads a working-directory .env file, and honours
// environment fallbacks such as PCSURVEY_STORE_DSN.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, ordered column mappings, and clear validation errors.
package config

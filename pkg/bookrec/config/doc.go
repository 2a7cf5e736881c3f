// Package config provides map-backed configuration for bookrec with
// yaml/json file loading and typed accessors.
//
// Every setting has a working default; a config file only overrides.
// Accessors never fail: a missing or mistyped value yields its default.
package config

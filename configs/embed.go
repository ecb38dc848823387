// Package configs embeds the configuration template written by
// `tscheck config init`.
//
// Edit project-config.example.yaml to change it; the values must stay equal
// to the defaults in internal/config.
package configs

import _ "embed"

// ProjectConfigTemplate is the commented .tscheck.yaml for a project root.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string

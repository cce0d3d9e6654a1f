// Package configs provides the embedded default configuration template
// for vlist hosts.
//
// The template is embedded at build time with //go:embed so it ships
// inside the compiled binary rather than depending on a file being
// present at runtime. A host can write it out verbatim to bootstrap a
// tunable config file, or load it directly via internal/config.Load.
package configs

import _ "embed"

// DefaultConfigTemplate is the starting point for a host-editable vlist
// config file. It mirrors internal/config.NewDefault field for field.
//
//go:embed default.yaml
var DefaultConfigTemplate string

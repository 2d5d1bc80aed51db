package config

import (
	_ "embed"
)

// Platform defaults baked into the binary.

//go:embed platforms/apollolake.yaml
var apollolakeYAML []byte

//go:embed platforms/cannonlake.yaml
var cannonlakeYAML []byte

//go:embed platforms/icelake.yaml
var icelakeYAML []byte

//go:embed platforms/tigerlake.yaml
var tigerlakeYAML []byte

// embeddedDefaults maps platform name -> raw YAML contents.
var embeddedDefaults = map[string][]byte{
	"apollolake": apollolakeYAML,
	"cannonlake": cannonlakeYAML,
	"icelake":    icelakeYAML,
	"tigerlake":  tigerlakeYAML,
}

package config

import (
	"fmt"
	"strings"
)

// Run parameter names.
const (
	ParamBuildType   = "BUILD_TYPE"
	ParamEnableSARIF = "ENABLE_SARIF"
)

// Params are KEY=VALUE run parameters given on the command line.
type Params map[string]string

// ParseParams parses "KEY=VALUE" pairs. A bare "KEY" sets an empty value.
// Later pairs override earlier ones.
func ParseParams(pairs []string) (Params, error) {
	params := make(Params, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid parameter %q: empty name", pair)
		}
		params[key] = value
	}
	return params, nil
}

// Get returns the value of key and whether it was set.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Bool reports whether key is set to a true value. A bare key counts as true.
func (p Params) Bool(key string) bool {
	v, ok := p[key]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

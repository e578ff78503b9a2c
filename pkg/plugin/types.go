package plugin

// ProviderOptions is the request a host sends a provider. json-stdio
// providers receive it as a JSON document on stdin.
type ProviderOptions struct {
	// Verbose asks the provider to log progress to stderr.
	Verbose bool `json:"verbose"`
	// Count is the colours wanted per palette. Zero leaves it to the provider.
	Count      int               `json:"count,omitempty"`
	PluginArgs map[string]string `json:"plugin_args,omitempty"`
}

// ProviderResponse is the reply a provider returns. json-stdio providers may
// also print a bare array of palettes, or a single palette.
type ProviderResponse struct {
	Palettes [][]string `json:"palettes"`
}

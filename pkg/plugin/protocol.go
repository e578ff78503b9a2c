package plugin

import "context"

// PaletteProvider is served by go-plugin providers. json-stdio providers
// implement the same contract over stdin and stdout instead.
type PaletteProvider interface {
	// Generate returns one or more palettes of "#rrggbb" strings.
	Generate(ctx context.Context, opts ProviderOptions) ([][]string, error)

	GetMetadata() PluginInfo
	GetFlagHelp() []FlagHelp
}

// FlagHelp documents one key a plugin accepts as --plugin.arg key=value.
// Values always arrive as strings; Type tells the user how the plugin
// parses them.
type FlagHelp struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PluginInfo is what a plugin prints for --plugin-info.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	PluginProtocol  string `json:"plugin_protocol"` // "json-stdio" or "go-plugin"

	// Flags describes the keys accepted through --plugin.arg. go-plugin
	// providers may leave it empty and answer GetFlagHelp instead.
	Flags []FlagHelp `json:"flags,omitempty"`
}

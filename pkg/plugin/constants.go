// Package plugin is the public API for recolour palette-provider plugins.
//
// A provider is any executable that answers --plugin-info with a JSON
// PluginInfo document. json-stdio providers then read ProviderOptions on
// stdin and write palettes to stdout; go-plugin providers serve
// PaletteProvider over net/rpc using Handshake.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion is the provider API version this package speaks,
	// as MAJOR.MINOR.PATCH. Hosts refuse plugins with a different MAJOR.
	ProtocolVersion = "0.1.0"

	// MinCompatibleVersion is the oldest plugin API version a host accepts.
	MinCompatibleVersion = "0.1.0"

	// PluginName is the key the provider is dispensed under.
	PluginName = "palette"
)

// Handshake gates go-plugin connections. Its ProtocolVersion tracks the
// MAJOR part of ProtocolVersion.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0,
	MagicCookieKey:   "RECOLOUR_PLUGIN",
	MagicCookieValue: "recolour_palette_provider",
}

// PluginType names the wire protocol a provider speaks.
type PluginType string

const (
	PluginTypeGoPlugin PluginType = "go-plugin"
	PluginTypeJSON     PluginType = "json-stdio"
)

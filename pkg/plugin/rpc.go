package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// PaletteProviderRPC implements the go-plugin Plugin interface for palette providers.
type PaletteProviderRPC struct {
	plugin.Plugin
	Impl PaletteProvider
}

// Server returns an RPC server for this plugin.
func (p *PaletteProviderRPC) Server(*plugin.MuxBroker) (any, error) {
	return &PaletteProviderRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *PaletteProviderRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &PaletteProviderRPCClient{client: c}, nil
}

// PaletteProviderRPCServer is the RPC server implementation for palette providers.
type PaletteProviderRPCServer struct {
	Impl PaletteProvider
}

// Generate implements the RPC method for palette generation.
func (s *PaletteProviderRPCServer) Generate(opts ProviderOptions, resp *ProviderResponse) error {
	palettes, err := s.Impl.Generate(context.Background(), opts)
	if err != nil {
		return err
	}
	*resp = ProviderResponse{Palettes: palettes}
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *PaletteProviderRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// GetFlagHelp implements the RPC method for fetching flag help.
func (s *PaletteProviderRPCServer) GetFlagHelp(_ any, resp *[]FlagHelp) error {
	*resp = s.Impl.GetFlagHelp()
	return nil
}

// PaletteProviderRPCClient is the RPC client implementation for palette providers.
type PaletteProviderRPCClient struct {
	client *rpc.Client
}

// Generate calls the remote Generate method. Cancelling ctx abandons the
// call; the host is expected to kill the plugin process afterwards.
func (c *PaletteProviderRPCClient) Generate(ctx context.Context, opts ProviderOptions) ([][]string, error) {
	var resp ProviderResponse
	call := c.client.Go("Plugin.Generate", opts, &resp, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case done := <-call.Done:
		if done.Error != nil {
			return nil, done.Error
		}
	}
	return resp.Palettes, nil
}

// GetMetadata calls the remote GetMetadata method.
func (c *PaletteProviderRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}

// GetFlagHelp calls the remote GetFlagHelp method.
func (c *PaletteProviderRPCClient) GetFlagHelp() []FlagHelp {
	var help []FlagHelp
	if err := c.client.Call("Plugin.GetFlagHelp", new(any), &help); err != nil {
		return []FlagHelp{}
	}
	return help
}

// PluginMap returns the plugin set a host dispenses from and a plugin serves.
func PluginMap(impl PaletteProvider) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &PaletteProviderRPC{Impl: impl},
	}
}

// Serve runs impl as a go-plugin palette provider. Plugin binaries call it
// from main; it returns when the host disconnects.
func Serve(impl PaletteProvider) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}

package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/recolour/pkg/plugin"
)

// DetectTimeout bounds the --plugin-info query.
const DetectTimeout = 5 * time.Second

// Executor runs a palette-provider plugin over whichever protocol it speaks.
type Executor struct {
	path    string
	runner  ProcessRunner
	logger  hclog.Logger
	verbose bool

	info     plugin.PluginInfo
	protocol plugin.PluginType

	client   *goplugin.Client
	provider plugin.PaletteProvider
}

// NewExecutor queries the plugin at path for its metadata and protocol.
func NewExecutor(ctx context.Context, path string, runner ProcessRunner, logger hclog.Logger, verbose bool) (*Executor, error) {
	if runner == nil {
		runner = NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	e := &Executor{path: path, runner: runner, logger: logger, verbose: verbose}
	if err := e.detect(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// detect runs the plugin with --plugin-info and checks its protocol version.
func (e *Executor) detect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	stdout, stderr, err := e.runner.Run(ctx, e.path, []string{"--plugin-info"}, nil)
	if err != nil {
		return fmt.Errorf("failed to query plugin: %w%s", err, stderrSuffix(stderr))
	}

	var info plugin.PluginInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return fmt.Errorf("failed to parse plugin info: %w", err)
	}

	switch plugin.PluginType(info.PluginProtocol) {
	case plugin.PluginTypeGoPlugin:
		e.protocol = plugin.PluginTypeGoPlugin
	case plugin.PluginTypeJSON, "":
		// Empty defaults to json-stdio.
		e.protocol = plugin.PluginTypeJSON
	default:
		return fmt.Errorf("unknown plugin_protocol: %s", info.PluginProtocol)
	}

	if info.ProtocolVersion != "" {
		if _, err := IsCompatible(info.ProtocolVersion); err != nil {
			return fmt.Errorf("plugin %s: %w", info.Name, err)
		}
	}

	e.info = info
	e.logger.Debug("detected plugin", "path", e.path, "name", info.Name, "protocol", e.protocol)
	return nil
}

// Info returns the metadata reported by the plugin.
func (e *Executor) Info() plugin.PluginInfo {
	return e.info
}

// Protocol returns the protocol the plugin speaks.
func (e *Executor) Protocol() plugin.PluginType {
	return e.protocol
}

// Generate asks the plugin for raw palettes.
func (e *Executor) Generate(ctx context.Context, opts plugin.ProviderOptions) ([][]string, error) {
	switch e.protocol {
	case plugin.PluginTypeGoPlugin:
		provider, err := e.rpcProvider()
		if err != nil {
			return nil, err
		}
		return provider.Generate(ctx, opts)
	case plugin.PluginTypeJSON:
		return e.generateJSON(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported protocol type: %s", e.protocol)
	}
}

// FlagHelp lists the keys the plugin accepts through --plugin.arg.
func (e *Executor) FlagHelp() ([]plugin.FlagHelp, error) {
	if e.protocol != plugin.PluginTypeGoPlugin || len(e.info.Flags) > 0 {
		return e.info.Flags, nil
	}
	provider, err := e.rpcProvider()
	if err != nil {
		return nil, err
	}
	return provider.GetFlagHelp(), nil
}

// Close kills the plugin process, if one is running.
func (e *Executor) Close() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.provider = nil
	}
}

func (e *Executor) rpcProvider() (plugin.PaletteProvider, error) {
	if e.provider != nil {
		return e.provider, nil
	}

	// Plugin logs are discarded unless verbose.
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "plugin",
		Output: io.Discard,
		Level:  hclog.Off,
	})
	if e.verbose {
		logger = e.logger.Named("plugin")
	}

	e.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  plugin.Handshake,
		Plugins:          plugin.PluginMap(nil),
		Cmd:              exec.Command(e.path), // #nosec G204 - plugin path is chosen by the user
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           logger,
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginName)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	provider, ok := raw.(plugin.PaletteProvider)
	if !ok {
		e.Close()
		return nil, fmt.Errorf("plugin returned unexpected type %T", raw)
	}
	e.provider = provider
	return provider, nil
}

func (e *Executor) generateJSON(ctx context.Context, opts plugin.ProviderOptions) ([][]string, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}

	stdout, stderr, err := e.runner.Run(ctx, e.path, nil, bytes.NewReader(optsJSON))
	if err != nil {
		return nil, fmt.Errorf("plugin execution failed: %w%s", err, stderrSuffix(stderr))
	}
	if e.verbose {
		for _, line := range strings.Split(strings.TrimSpace(string(stderr)), "\n") {
			if line != "" {
				e.logger.Info(line, "plugin", e.path)
			}
		}
	}

	return ParseProviderOutput(stdout)
}

// ParseProviderOutput accepts {"palettes": [[...]]}, a bare list of palettes,
// or a single flat palette.
func ParseProviderOutput(data []byte) ([][]string, error) {
	data = bytes.TrimSpace(data)

	var resp plugin.ProviderResponse
	if err := json.Unmarshal(data, &resp); err == nil && resp.Palettes != nil {
		return resp.Palettes, nil
	}

	var nested [][]string
	if err := json.Unmarshal(data, &nested); err == nil {
		return nested, nil
	}

	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		return [][]string{flat}, nil
	}

	return nil, fmt.Errorf("failed to parse plugin output\nOutput: %s", truncate(string(data), 256))
}

func stderrSuffix(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	return "\nStderr: " + s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

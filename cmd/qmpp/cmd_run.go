package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/4lt/qmpp/internal/errx"
	"github.com/4lt/qmpp/pkg/config"
	"github.com/4lt/qmpp/pkg/engine"
	"github.com/4lt/qmpp/pkg/hookrunner"
	"github.com/4lt/qmpp/pkg/logging"
	"github.com/4lt/qmpp/pkg/qmap"
)

var runCmd = &cobra.Command{
	Use:   "run <map-file> <guest.wasm>",
	Short: "Parse a .map file and drive a guest plugin's init/process hooks against it",
	Example: `  qmpp run level.map hello.wasm
  qmpp run --log-level debug --json-log run.jsonl level.map hello.wasm`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("config", "qmpp.yaml", "Path to qmpp.yaml")
	runCmd.Flags().String("log-level", "", "Log level (overrides config/env)")
	runCmd.Flags().Duration("hook-timeout", 0, "Hook execution timeout (overrides config/env)")
	runCmd.Flags().String("plugin-path", "", "Guest plugin search path (overrides config/env)")
	runCmd.Flags().String("json-log", "", "Append structured JSON-L events to this file")

	viper.BindPFlag("log-level", runCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("hook-timeout", runCmd.Flags().Lookup("hook-timeout"))
	viper.BindPFlag("plugin-path", runCmd.Flags().Lookup("plugin-path"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	mapPath, guestPath := args[0], args[1]

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return errx.Wrap(ErrLoadConfig, err)
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if d := viper.GetDuration("hook-timeout"); d > 0 {
		cfg.HookTimeout = d
	}
	if p := viper.GetString("plugin-path"); p != "" {
		cfg.PluginPath = p
	}
	if cfg.LogLevel == "debug" {
		fmt.Fprintf(os.Stderr, "[debug] log_level=%s hook_timeout=%s plugin_path=%q\n", cfg.LogLevel, cfg.HookTimeout, cfg.PluginPath)
	}

	m, err := parseMapFile(mapPath)
	if err != nil {
		return err
	}

	guestPath = resolveGuestPath(guestPath, cfg.PluginPath)
	guestBytes, err := os.ReadFile(guestPath)
	if err != nil {
		return errx.Wrap(ErrReadGuestFile, err)
	}

	sinks := []logging.Sink{logging.NewTextSink(os.Stdout, os.Stderr)}
	jsonLogPath, _ := cmd.Flags().GetString("json-log")
	if jsonLogPath != "" {
		jsonl, err := logging.NewJSONLWriter(jsonLogPath)
		if err != nil {
			return errx.Wrap(ErrOpenLogFile, err)
		}
		defer jsonl.Close()
		sinks = append(sinks, jsonl)
	}

	runID := uuid.New().String()
	// Hook is left unset here; hookrunner derives a per-hook emitter via
	// Emitter.WithHook so init and process events are labeled correctly.
	emitter := logging.NewEmitter(logging.EmitterConfig{RunID: runID}, sinks...)
	defer emitter.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HookTimeout)
	defer cancel()

	eng := engine.New(ctx)
	defer eng.Close(ctx)

	result, err := hookrunner.Run(ctx, eng, guestBytes, m, emitter)
	if err != nil {
		return errx.Wrap(ErrRunGuest, err)
	}

	fmt.Fprintf(os.Stderr, "Plugin %q finished processing %s\n", result.PluginName, mapPath)
	return nil
}

// resolveGuestPath joins a bare plugin filename against the configured
// plugin search path. A path that already contains a separator, or an
// empty pluginPath, is used as given.
func resolveGuestPath(path, pluginPath string) string {
	if pluginPath == "" || filepath.IsAbs(path) || strings.ContainsRune(path, os.PathSeparator) {
		return path
	}
	return filepath.Join(pluginPath, path)
}

func parseMapFile(path string) (*qmap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errx.Wrap(ErrOpenMapFile, err)
	}
	defer f.Close()

	m, err := qmap.Parse(f)
	if err != nil {
		return nil, errx.Wrap(ErrParseMapFile, err)
	}
	return m, nil
}

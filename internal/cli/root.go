// Package cli implements the uistate command: inspect, edit and invalidate
// persisted listing state from a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-uistate"
	"github.com/goliatone/go-uistate/internal/config"
	"github.com/goliatone/go-uistate/internal/telemetry"
	"github.com/goliatone/go-uistate/pkg/storage"
)

// app carries the state shared by every command of one invocation.
type app struct {
	svc        *uistate.Service
	closeFn    func() error
	shutdown   func(context.Context) error
	jsonOutput bool
	version    string
	stderr     io.Writer
}

// Execute runs the root command against the environment configuration.
func Execute(version string) error {
	return newRootCmd(&app{version: version}).Execute()
}

func newRootCmd(a *app) *cobra.Command {
	if a.version == "" {
		a.version = "dev"
	}
	rootCmd := &cobra.Command{
		Use:     "uistate",
		Version: a.version,
		Short:   "Inspect and edit persisted listing state",
		Long: `uistate reads and writes the filter, pagination and sort state that
listing pages persist per namespace.

Storage is selected with UISTATE_STORE (memory, sqlite or noop) and
UISTATE_DB_PATH.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newNamespacesCmd(a),
		newShowCmd(a),
		newSetCmd(a),
		newClearCmd(a),
		newVisitCmd(a),
		newEvalCmd(a),
	)
	return rootCmd
}

// open builds the service from the environment unless one was injected.
func (a *app) open(cmd *cobra.Command) error {
	if a.svc != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	shutdown, err := telemetry.Setup(commandContext(cmd), "uistate", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.shutdown = shutdown
	backend, closeFn, err := cfg.OpenBackend()
	if err != nil {
		return err
	}
	stderr := a.stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := cfg.NewLogger(stderr)
	a.closeFn = closeFn
	a.svc = uistate.NewService(
		storage.NewAdapter(backend, storage.WithLogger(logger)),
		uistate.WithKeyPrefix(cfg.KeyPrefix),
		uistate.WithServiceLogger(logger),
	)
	return nil
}

func (a *app) close() error {
	var err error
	if a.closeFn != nil {
		err = a.closeFn()
		a.closeFn = nil
	}
	if a.shutdown != nil {
		if shutdownErr := a.shutdown(context.Background()); err == nil {
			err = shutdownErr
		}
		a.shutdown = nil
	}
	return err
}

func (a *app) lookup(key string) (uistate.Namespace, error) {
	ns, err := a.svc.Registry().Lookup(key)
	if err != nil {
		return uistate.Namespace{}, fmt.Errorf("%w (run 'uistate namespaces' for the list)", err)
	}
	return ns, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

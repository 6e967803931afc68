package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ecocycle-backend/internal/offline"
	"ecocycle-backend/internal/offline/remote"
	"ecocycle-backend/internal/offline/store"
)

// RootOptions holds global flags shared by all agent commands.
type RootOptions struct {
	ConfigPath    string
	ServerURL     string
	Token         string
	UserID        string
	StorePath     string
	ProbeInterval time.Duration

	cfg Config
}

// NewRootCommand creates the root command for the ecocycle agent.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ecocycle-agent",
		Short: "Offline-first field agent for the ecocycle platform",
		Long: `The ecocycle agent records waste collections and complaints in the
field. Submissions go straight to the server when it is reachable and
into a local queue when it is not; queued work is replayed automatically
the moment the connection returns.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolveConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.ecocycle/agent.yaml)")
	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", "", "server base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "API bearer token")
	cmd.PersistentFlags().StringVar(&opts.UserID, "user", "", "submitting user id")
	cmd.PersistentFlags().StringVar(&opts.StorePath, "store", "", "pending store path (default ~/.ecocycle/pending.db)")
	cmd.PersistentFlags().DurationVar(&opts.ProbeInterval, "probe-interval", 0, "connectivity probe interval")

	cmd.AddCommand(NewCollectCommand(opts))
	cmd.AddCommand(NewComplainCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// resolveConfig merges the config file with flag overrides.
func (o *RootOptions) resolveConfig() error {
	path := o.ConfigPath
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}

	if o.ServerURL != "" {
		cfg.ServerURL = o.ServerURL
	}
	if o.Token != "" {
		cfg.Token = o.Token
	}
	if o.UserID != "" {
		cfg.UserID = o.UserID
	}
	if o.StorePath != "" {
		cfg.StorePath = o.StorePath
	}
	if o.ProbeInterval > 0 {
		cfg.ProbeInterval = o.ProbeInterval
	}

	if err := cfg.applyDefaults(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// openStore opens the pending store at the configured path, creating the
// parent directory on first use.
func (o *RootOptions) openStore() (*store.Store, error) {
	if dir := filepath.Dir(o.cfg.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("cannot create store directory %s: %w", dir, err)
		}
	}
	return store.Open(o.cfg.StorePath)
}

// newRemote builds the API client for the configured server.
func (o *RootOptions) newRemote() *remote.Client {
	return remote.NewClient(o.cfg.ServerURL, o.cfg.Token)
}

// newProber builds a connectivity signal watching the server's health
// endpoint.
func (o *RootOptions) newProber(client *remote.Client) *offline.Prober {
	return offline.NewProber(client, o.cfg.ProbeInterval)
}

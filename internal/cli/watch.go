package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ecocycle-backend/internal/offline"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the connectivity monitor in the foreground",
		Long: `Watch the server's reachability and sync automatically. Whenever the
connection comes back, queued changes are replayed; every transition and
sync outcome is printed as it happens. Stop with Ctrl-C.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client := opts.newRemote()
	engine := offline.NewEngine(st, client)

	prober := opts.newProber(client)
	prober.Start()
	defer prober.Close()

	monitor := offline.NewMonitor(st, engine, prober, consoleNotifier(cmd.OutOrStdout()), 0)
	monitor.Start()
	defer monitor.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "👀 Watching %s (online=%v, pending=%d)\n",
		opts.cfg.ServerURL, monitor.Online(), monitor.PendingChanges())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(cmd.OutOrStdout(), "Shutting down")
	return nil
}

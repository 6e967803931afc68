package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show connectivity and the pending queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, rootOpts)
		},
	}
	return cmd
}

func runStatus(cmd *cobra.Command, opts *RootOptions) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client := opts.newRemote()
	online := client.Health(cmd.Context()) == nil

	collections, err := st.ListWasteCollections()
	if err != nil {
		return err
	}
	complaints, err := st.ListComplaints()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if online {
		fmt.Fprintf(out, "Server:  ✅ reachable (%s)\n", opts.cfg.ServerURL)
	} else {
		fmt.Fprintf(out, "Server:  🔴 unreachable (%s)\n", opts.cfg.ServerURL)
	}
	fmt.Fprintf(out, "Pending: %d change(s)\n", len(collections)+len(complaints))

	for _, rec := range collections {
		fmt.Fprintf(out, "  #%d collection: %s %.1fkg @ %.2f/kg in %s\n",
			rec.LocalID, rec.WasteType, rec.Quantity, rec.PricePerKg, rec.CollectionZone)
	}
	for _, rec := range complaints {
		attachment := ""
		if rec.ImageData != nil {
			attachment = " 🖼️"
		}
		fmt.Fprintf(out, "  #%d complaint: %s (%s)%s\n", rec.LocalID, rec.Description, rec.Location, attachment)
	}
	return nil
}

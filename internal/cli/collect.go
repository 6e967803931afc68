package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ecocycle-backend/internal/offline/remote"
	"ecocycle-backend/internal/offline/store"
)

// CollectOptions holds flags for the collect command.
type CollectOptions struct {
	*RootOptions
	WasteType        string
	Quantity         float64
	PricePerKg       float64
	Zone             string
	AvailableForSale bool
	VoiceDescription string
}

// NewCollectCommand creates the collect command.
func NewCollectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CollectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Record a waste collection",
		Long: `Record a waste collection. The record is sent to the server
immediately when it is reachable; otherwise it is queued locally and
replayed by the next sync.

Example:
  ecocycle-agent collect --type paper --quantity 5 --price 2 --zone zone_1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.WasteType, "type", "", "waste type (paper, plastic, metal, glass, organic)")
	cmd.Flags().Float64Var(&opts.Quantity, "quantity", 0, "quantity in kg")
	cmd.Flags().Float64Var(&opts.PricePerKg, "price", 0, "asking price per kg")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "collection zone id")
	cmd.Flags().BoolVar(&opts.AvailableForSale, "for-sale", false, "list the lot on the marketplace")
	cmd.Flags().StringVar(&opts.VoiceDescription, "voice", "", "optional voice note transcript")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("zone")

	return cmd
}

func runCollect(cmd *cobra.Command, opts *CollectOptions) error {
	if err := opts.cfg.validate(); err != nil {
		return err
	}
	if opts.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero")
	}

	var voice *string
	if opts.VoiceDescription != "" {
		voice = &opts.VoiceDescription
	}

	client := opts.newRemote()
	err := client.CreateWasteCollection(cmd.Context(), remote.WasteCollectionPayload{
		UserID:           opts.cfg.UserID,
		WasteType:        opts.WasteType,
		Quantity:         opts.Quantity,
		PricePerKg:       opts.PricePerKg,
		CollectionZone:   opts.Zone,
		AvailableForSale: opts.AvailableForSale,
		VoiceDescription: voice,
	})
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Collection recorded on server")
		return nil
	}
	if !errors.Is(err, remote.ErrNetwork) {
		// The server answered and said no; queueing would just replay
		// the same rejection.
		return err
	}

	st, storeErr := opts.openStore()
	if storeErr != nil {
		return storeErr
	}
	defer st.Close()

	localID, storeErr := st.EnqueueWasteCollection(store.PendingWasteCollection{
		UserID:           opts.cfg.UserID,
		WasteType:        opts.WasteType,
		Quantity:         opts.Quantity,
		PricePerKg:       opts.PricePerKg,
		CollectionZone:   opts.Zone,
		AvailableForSale: opts.AvailableForSale,
		VoiceDescription: voice,
	})
	if storeErr != nil {
		return storeErr
	}

	if pending, countErr := st.Count(); countErr == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Server unreachable, collection saved offline (#%d, %d pending)\n", localID, pending)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Server unreachable, collection saved offline (#%d)\n", localID)
	}
	return nil
}

package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecocycle-backend/internal/offline/remote"
	"ecocycle-backend/internal/offline/store"
)

// ComplainOptions holds flags for the complain command.
type ComplainOptions struct {
	*RootOptions
	Description string
	Location    string
	ImagePath   string
}

// NewComplainCommand creates the complain command.
func NewComplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "complain",
		Short: "File a complaint about a collection site",
		Long: `File a complaint, optionally attaching a photo. Online, the photo is
uploaded first and the complaint references its hosted URL. Offline, the
photo is kept inline in the local queue and uploaded during sync.

Example:
  ecocycle-agent complain --description "Overflowing container" --location zone_3 --image ./site.jpg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComplain(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Description, "description", "", "what is wrong")
	cmd.Flags().StringVar(&opts.Location, "location", "", "where (zone id or free text)")
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "optional photo to attach")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func runComplain(cmd *cobra.Command, opts *ComplainOptions) error {
	if err := opts.cfg.validate(); err != nil {
		return err
	}

	var imageData *string
	if opts.ImagePath != "" {
		raw, err := os.ReadFile(opts.ImagePath)
		if err != nil {
			return fmt.Errorf("cannot read image %s: %w", opts.ImagePath, err)
		}
		encoded := base64.StdEncoding.EncodeToString(raw)
		imageData = &encoded
	}

	client := opts.newRemote()
	err := sendComplaint(cmd, client, opts, imageData)
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Complaint filed on server")
		return nil
	}
	if !errors.Is(err, remote.ErrNetwork) && !errors.Is(err, remote.ErrUpload) {
		return err
	}

	st, storeErr := opts.openStore()
	if storeErr != nil {
		return storeErr
	}
	defer st.Close()

	localID, storeErr := st.EnqueueComplaint(store.PendingComplaint{
		UserID:      opts.cfg.UserID,
		Description: opts.Description,
		Location:    opts.Location,
		ImageData:   imageData,
	})
	if storeErr != nil {
		return storeErr
	}

	if pending, countErr := st.Count(); countErr == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Server unreachable, complaint saved offline (#%d, %d pending)\n", localID, pending)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Server unreachable, complaint saved offline (#%d)\n", localID)
	}
	return nil
}

func sendComplaint(cmd *cobra.Command, client *remote.Client, opts *ComplainOptions, imageData *string) error {
	payload := remote.ComplaintPayload{
		UserID:      opts.cfg.UserID,
		Description: opts.Description,
		Location:    opts.Location,
	}

	if imageData != nil {
		url, err := client.UploadImage(cmd.Context(), *imageData)
		if err != nil {
			return err
		}
		payload.ImageURL = &url
	}

	return client.CreateComplaint(cmd.Context(), payload)
}

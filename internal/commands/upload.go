package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUploadCmd creates the file text extraction command
func NewUploadCmd(deps *Dependencies) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Send a file to the backend and print its extracted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := deps.NewClient(deps.Config(), deps.Logger())
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			interactive := deps.Interactive != nil && deps.Interactive()
			spin := newSpinner(deps.Stderr, "Uploading "+args[0])
			if interactive {
				spin.start()
			}

			result, err := client.UploadFile(cmd.Context(), args[0])
			if err != nil {
				spin.stopWithError()
				fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Upload failed"))
				return fmt.Errorf("upload failed: %w", err)
			}
			if interactive {
				spin.stopWithSuccess(fmt.Sprintf("Read %s (%d bytes)", result.FileName, result.Size))
			}

			if raw {
				fmt.Fprintln(deps.Stdout, result.Text)
				return nil
			}
			fmt.Fprintln(deps.Stdout, result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the extracted text")
	return cmd
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newFileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Read and write whole text files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "read <path>",
		Short: "Print a file's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.files().Read(cmd.Context(), args[0])
			if !res.OK() {
				return res.Err
			}
			_, err := io.WriteString(cmd.OutOrStdout(), res.Content)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "write <path> [text...]",
		Short: "Write text to a file, creating parent directories",
		Long: `Replaces the file at path with the given text, or with stdin when no
text arguments follow the path. Missing parent directories are created.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args[1:], " ")
			if len(args) == 1 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}

			res := a.files().Write(cmd.Context(), args[0], content)
			if !res.OK() {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(res.Content), args[0])
			return nil
		},
	})

	return cmd
}

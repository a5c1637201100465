package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newCmdConfig returns a command that shows the effective configuration.
func newCmdConfig(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if st.env == nil {
				return errors.New("configuration not loaded")
			}
			out, err := st.env.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yaegashi/jupyterops/internal/catalog"
)

// newCmdImages returns a command that lists the notebook flavors.
func newCmdImages() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "List notebook flavors and the images they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(catalog.Flavors()))
			for _, f := range catalog.Flavors() {
				ref, err := catalog.NormalizeImage(f.Image)
				if err != nil {
					return err
				}
				rows = append(rows, []string{f.Key, f.Label, ref})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("FLAVOR", "LABEL", "IMAGE").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peekproxy/peek/internal/export"
	"github.com/peekproxy/peek/internal/store"
)

// newExportCommand renders stored exchanges to an HTML report without
// starting the proxy or the viewer.
func newExportCommand(flags *rootFlags) *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored exchanges to an HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveExportConfig(flags)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer st.Close()

			exchanges, err := st.List(limit)
			if err != nil {
				return err
			}
			if len(exchanges) == 0 {
				return fmt.Errorf("no stored exchanges to export")
			}

			dir := cfg.Export.Dir
			if output != "" {
				dir = output
			}
			// Empty name: the generator picks its timestamped default.
			path, err := export.NewGenerator(dir).Generate(exchanges, "")
			if err != nil {
				return err
			}

			fmt.Printf("Exported %d exchanges to %s\n", len(exchanges), path)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum exchanges to export (0 = all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	return cmd
}

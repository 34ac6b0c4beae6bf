package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ostafen/raidplan/internal/jobs"
	"github.com/spf13/cobra"
)

func DefineSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the built-in job sources",
		Long: `The 'sources' command displays a table of the built-in job sources accepted by 'run' and 'mount'.
Fixed sources always return the same jobs, generated ones compute them from a few parameters.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunSources,
	}
	return cmd
}

func RunSources(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tJOBS\tDESC")

	for _, src := range jobs.Sources() {
		kind := "fixed"
		if src.Generated {
			kind = "generated"
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			src.Name,
			kind,
			len(src.Jobs()),
			src.Description,
		)
	}
	return w.Flush()
}

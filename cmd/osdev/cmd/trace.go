package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aahrav/osdev/datarecording"
	"github.com/Aahrav/osdev/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace <database.sqlite3>",
	Short: "Dump a recorded access trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().Int("limit", 0, "maximum number of rows to print")

	rootCmd.AddCommand(traceCmd)
}

func runTrace(cobraCmd *cobra.Command, args []string) error {
	reader := datarecording.NewReader(args[0])
	defer reader.Close()

	reader.MapTable(trace.AccessTableName, trace.AccessRow{})

	limit, _ := cobraCmd.Flags().GetInt("limit")

	rows, total, err := reader.Query(
		cobraCmd.Context(),
		trace.AccessTableName,
		datarecording.QueryParams{
			OrderBy: "rowid",
			Limit:   limit,
		})
	if err != nil {
		return err
	}

	for _, row := range rows {
		access := row.(trace.AccessRow)

		if access.Device != "" {
			fmt.Printf("%s  %-5s %-6s @0x%08x = 0x%x\n",
				access.ID, access.Kind, access.Device,
				access.Addr, access.Value)
			continue
		}

		fmt.Printf("%s  %-5s [%d] @0x%08x = %d\n",
			access.ID, access.Kind, access.Index,
			access.Addr, access.Value)
	}

	fmt.Printf("%d of %d accesses\n", len(rows), total)

	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/auditdash/auditdash/internal/utils"
	"github.com/auditdash/auditdash/pkg/report"
	"github.com/auditdash/auditdash/pkg/storage"
	"github.com/auditdash/auditdash/pkg/store"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the findings timeline and health history to a sqlite file",
	Long: `Export rebuilds the full findings timeline and per-day health history
from the report directories and writes them into a sqlite database for
ad-hoc querying. The dashboard itself never reads this file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		if dbPath == "" {
			dbPath = "auditdash.sqlite"
		}

		st := store.New(dataDir(cmd))
		dates := st.Dates()
		if len(dates) == 0 {
			return fmt.Errorf("no audit data found in %s", dataDir(cmd))
		}

		timeline := report.BuildTimeline(dates, st.RawReports)

		history := make([]storage.HealthEntry, 0, len(dates))
		for _, date := range dates {
			reports := st.Reports(date)
			count := 0
			for _, r := range reports {
				if r.Agent != "meta" && r.Agent != "digest" {
					count++
				}
			}
			history = append(history, storage.HealthEntry{
				Date:       date,
				Score:      report.HealthScore(reports),
				AgentCount: count,
			})
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		if err := db.ReplaceTimeline(ctx, timeline); err != nil {
			return err
		}
		if err := db.ReplaceHealthHistory(ctx, history); err != nil {
			return err
		}
		utils.Log.Infof("Exported %d findings across %d days to %s", len(timeline), len(dates), dbPath)

		stats, err := db.GetStats(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "SEVERITY\tFINDINGS\t")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t\n", s.Severity, s.Count)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("data-dir", "d", "", "Directory holding the per-date report folders")
	exportCmd.Flags().String("dbpath", "", "Path of the sqlite file to write (default auditdash.sqlite)")
}

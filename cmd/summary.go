package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/auditdash/auditdash/pkg/report"
	"github.com/auditdash/auditdash/pkg/store"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the latest audit day's health summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(dataDir(cmd))
		dates := st.Dates()
		if len(dates) == 0 {
			fmt.Println("No audit data found.")
			return nil
		}
		latest := dates[len(dates)-1]
		reports := st.Reports(latest)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "AUDIT %s\t\t\t\n", latest)
		fmt.Fprintln(w, "AGENT\tSCORE\tGRADE\tSTATUS\t")

		for _, r := range reports {
			if r.Agent == "meta" || r.Agent == "digest" {
				continue
			}
			score := "-"
			if r.Score != nil {
				score = fmt.Sprintf("%d", *r.Score)
			}
			grade := "-"
			if g := r.Grade(); g != "" {
				grade = g
			} else if gp := report.GradeFromScore(r.Score); gp != nil {
				grade = *gp
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", r.Agent, score, grade, r.Status)
		}

		fmt.Fprintln(w, " \t \t \t \t")
		if hs := report.HealthScore(reports); hs != nil {
			fmt.Fprintf(w, "HEALTH\t%d\t\t\t\n", *hs)
		} else {
			fmt.Fprintln(w, "HEALTH\t-\t\t\t")
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringP("data-dir", "d", "", "Directory holding the per-date report folders")
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/config"
	"skysurvey-sim/internal/nights"
)

var (
	nightsConfigPath string
	nightsSchemaPath string
	nightsCount      int
)

var nightsCmd = &cobra.Command{
	Use:   "nights",
	Short: "Print the survey night calendar",
	Long:  "nights lists the sunset boundaries that number survey nights, with downtime annotations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nightsConfigPath, nightsSchemaPath)
		if err != nil {
			return err
		}
		opts := cfg.Options()

		ix, err := nights.Build(nights.Config{
			StartMJD: opts.StartMJD,
			Years:    opts.SurveyYears,
			PadDays:  opts.PadDays,
			Horizon:  opts.NightHorizon,
			Site:     opts.Site,
		})
		if err != nil {
			return err
		}
		down := cfg.DowntimeSet(opts.Seed, ix.Len())

		bounds := ix.Boundaries()
		count := nightsCount
		if count > len(bounds) {
			count = len(bounds)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "night\tsunset mjd\tsunset utc\tdown")
		for i := 0; i < count; i++ {
			// Night i+1 begins at boundary i.
			night := i + 1
			note := ""
			if reason, ok := down.Reason(night); ok {
				note = reason
			}
			fmt.Fprintf(w, "%d\t%.5f\t%s\t%s\n",
				night, bounds[i], astro.MJDToTime(bounds[i]).UTC().Format("2006-01-02 15:04"), note)
		}
		return w.Flush()
	},
}

func init() {
	nightsCmd.Flags().StringVar(&nightsConfigPath, "config", "config/survey.yaml", "Path to survey configuration YAML")
	nightsCmd.Flags().StringVar(&nightsSchemaPath, "schema", "schemas/survey.cue", "Path to CUE schema file")
	nightsCmd.Flags().IntVar(&nightsCount, "count", 30, "How many nights to list")
}

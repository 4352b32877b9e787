package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matsuesunset/sunset-service/internal/domain"
)

func scoreCmd() *cobra.Command {
	var (
		cloud, humidity, pm25 float64
		jsonOutput            bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a reading; omitted flags use the default fallbacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r domain.ForecastReading
			if cmd.Flags().Changed("cloud") {
				r.CloudCoverPct = domain.Ptr(cloud)
			}
			if cmd.Flags().Changed("humidity") {
				r.HumidityPct = domain.Ptr(humidity)
			}
			if cmd.Flags().Changed("pm25") {
				r.PM25 = domain.Ptr(pm25)
			}
			return runScore(cmd.OutOrStdout(), r, jsonOutput)
		},
	}

	cmd.Flags().Float64Var(&cloud, "cloud", 0, "cloud cover in percent")
	cmd.Flags().Float64Var(&humidity, "humidity", 0, "relative humidity in percent")
	cmd.Flags().Float64Var(&pm25, "pm25", 0, "PM2.5 concentration in µg/m³")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runScore(w io.Writer, r domain.ForecastReading, jsonOutput bool) error {
	est := domain.NewEstimate(r)
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}

	n, b := est.Normalized, est.Breakdown
	fmt.Fprintf(w, "score      %d\n", est.Score)
	fmt.Fprintf(w, "raw        %.2f (%s)\n", b.Raw, est.Rounding)
	fmt.Fprintf(w, "cloud      %6.2f%%  -> %+.2f\n", n.CloudCoverPct, b.Cloud)
	fmt.Fprintf(w, "humidity   %6.2f%%  -> %+.2f\n", n.HumidityPct, b.Humidity)
	fmt.Fprintf(w, "pm2.5      %6.2f   -> %+.2f\n", n.PM25, b.PM25)
	fmt.Fprintf(w, "baseline            %+.2f\n", b.Baseline)
	return nil
}

// Command fishtrack is the CLI entry point: it consumes directories of
// detection CSVs, prints aggregated intervals or raw normalised
// detections, and provisions or drops the persistence schema.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fishtrack/domain/aggregate"
	"fishtrack/domain/detection"
	"fishtrack/domain/interval"
	"fishtrack/internal/config"
	"fishtrack/internal/container"
	apperrors "fishtrack/internal/errors"
	"fishtrack/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "fishtrack",
		Short: "Normalise, aggregate, and store acoustic fish-telemetry detections",
	}

	rootCmd.AddCommand(
		newConsCmd(),
		newAggregateCmd(),
		newParseCmd(),
		newCreateTableCmd(),
		newDeleteTableCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if os.IsNotExist(err) {
			os.Exit(255)
		}
		os.Exit(1)
	}
}

func newConsCmd() *cobra.Command {
	var minutes int
	var debug bool

	cmd := &cobra.Command{
		Use:   "cons <directory>",
		Short: "Consume every *.csv under <directory> and print aggregated intervals as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCons(cmd.Context(), args[0], minutes, debug)
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 60, "gap threshold in minutes")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().Bool("no-debug", false, "disable debug logging (default)")

	return cmd
}

func newAggregateCmd() *cobra.Command {
	var stMapping string
	var minutes int
	var debug bool

	cmd := &cobra.Command{
		Use:   "aggregate <directory>",
		Short: "As cons, with station-name reconciliation and ISO timestamps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd.Context(), args[0], stMapping, minutes, debug)
		},
	}
	cmd.Flags().StringVar(&stMapping, "st_mapping", "./data/station_names.md", "station mapping file (CSV/Markdown/XLSX path, or a postgres:// DSN)")
	cmd.Flags().IntVar(&minutes, "minutes", 30, "gap threshold in minutes")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().Bool("no-debug", false, "disable debug logging (default)")

	return cmd
}

func newParseCmd() *cobra.Command {
	var stMapping string
	var debug bool

	cmd := &cobra.Command{
		Use:   "parse <directory>",
		Short: "As aggregate, but skip the aggregator and print normalised detections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), args[0], stMapping, debug)
		},
	}
	cmd.Flags().StringVar(&stMapping, "st_mapping", "./data/station_names.md", "station mapping file (CSV/Markdown/XLSX path, or a postgres:// DSN)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().Bool("no-debug", false, "disable debug logging (default)")

	return cmd
}

func newCreateTableCmd() *cobra.Command {
	var conn string
	cmd := &cobra.Command{
		Use:   "create-table",
		Short: "Provision the persistence schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd.Context(), conn, true)
		},
	}
	cmd.Flags().StringVar(&conn, "conn", "local", "connection mode: local|remote")
	return cmd
}

func newDeleteTableCmd() *cobra.Command {
	var conn string
	cmd := &cobra.Command{
		Use:   "delete-table",
		Short: "Drop the persistence schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd.Context(), conn, false)
		},
	}
	cmd.Flags().StringVar(&conn, "conn", "local", "connection mode: local|remote")
	return cmd
}

func buildContainer(ctx context.Context, conn string) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if conn != "" {
		if conn != "local" && conn != "remote" {
			return nil, apperrors.UnknownMode(conn)
		}
		cfg.Store.Mode = conn
	}
	return container.New(ctx, cfg)
}

func runCons(ctx context.Context, dir string, minutes int, debug bool) error {
	c, err := buildContainer(ctx, "")
	if err != nil {
		return err
	}
	c.Logger.SetDebug(debug)

	detections, err := loadDirectory(ctx, c, dir, "")
	if err != nil {
		return err
	}

	intervals := aggregate.Aggregate(detections, minutes)
	return writeIntervalsCSV(os.Stdout, intervals, "unix")
}

func runAggregate(ctx context.Context, dir, stMapping string, minutes int, debug bool) error {
	c, err := buildContainer(ctx, "")
	if err != nil {
		return err
	}
	c.Logger.SetDebug(debug)

	detections, err := loadDirectory(ctx, c, dir, stMapping)
	if err != nil {
		return err
	}

	intervals := aggregate.Aggregate(detections, minutes)
	return writeIntervalsCSV(os.Stdout, intervals, "iso")
}

func runParse(ctx context.Context, dir, stMapping string, debug bool) error {
	c, err := buildContainer(ctx, "")
	if err != nil {
		return err
	}
	c.Logger.SetDebug(debug)

	detections, err := loadDirectory(ctx, c, dir, stMapping)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()
	_ = writer.Write([]string{"timestamp", "transmitter_id", "station_name", "receiver_id"})
	for _, d := range detections {
		_ = writer.Write([]string{
			d.Timestamp.Format("2006-01-02T15:04:05"),
			d.TransmitterID,
			d.StationName,
			d.ReceiverID,
		})
	}
	return nil
}

func loadDirectory(ctx context.Context, c *container.Container, dir, stMapping string) ([]detection.Detection, error) {
	if stMapping != "" {
		if err := c.LoadStationMapping(ctx, stMapping); err != nil {
			return nil, err
		}
	}
	return pipeline.ProcessDirectory(ctx, c.Tokeniser, c.Mapping, dir)
}

func runSchema(ctx context.Context, conn string, create bool) error {
	c, err := buildContainer(ctx, conn)
	if err != nil {
		return err
	}
	if create {
		return c.Store.EnsureSchema(ctx)
	}
	return c.Store.DropSchema(ctx)
}

func writeIntervalsCSV(w *os.File, intervals []interval.Interval, timeFormat string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	_ = writer.Write([]string{"transmitter_id", "station_name", "start", "stop"})
	for _, iv := range intervals {
		start, stop := formatBounds(iv, timeFormat)
		_ = writer.Write([]string{iv.TransmitterID, iv.StationName, start, stop})
	}
	return nil
}

func formatBounds(iv interval.Interval, timeFormat string) (string, string) {
	if timeFormat == "iso" {
		return iv.Start.Format("2006-01-02T15:04:05"), iv.Stop.Format("2006-01-02T15:04:05")
	}
	return strconv.FormatInt(iv.Start.Unix(), 10), strconv.FormatInt(iv.Stop.Unix(), 10)
}

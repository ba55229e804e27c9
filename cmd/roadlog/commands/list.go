package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dyluth/roadlog/internal/filter"
	"github.com/dyluth/roadlog/internal/printer"
	"github.com/dyluth/roadlog/internal/report"
	"github.com/dyluth/roadlog/internal/timespec"
	"github.com/spf13/cobra"
)

var (
	listOutputFormat string
	listName         string
	listSince        string
	listUntil        string
	listNear         string
	listRadiusKm     float64
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded obstacles",
	Long: `List recorded obstacles in the order they were recorded.

Output Formats:
  default - Human-readable table with ID, name, age, position and description
  jsonl   - Line-delimited JSON, one obstacle per line
  json    - A single JSON array, the same shape as the stored list

Time Filters:
  --since  - Show obstacles recorded after this time
  --until  - Show obstacles recorded before this time

Examples:
  # List everything
  roadlog list

  # Potholes recorded in the last two days
  roadlog list --name="pothole*" --since=2d

  # Obstacles within 5 km of a point, as JSONL for jq
  roadlog list --near=48.8566,2.3522 --radius=5 -o jsonl`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "default", "Output format: default, jsonl or json")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by name (case-insensitive glob)")
	listCmd.Flags().StringVar(&listSince, "since", "", "Show obstacles after time (duration, days like 2d, date or RFC3339)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Show obstacles before time (duration, days like 2d, date or RFC3339)")
	listCmd.Flags().StringVar(&listNear, "near", "", "Only obstacles near LAT,LON")
	listCmd.Flags().Float64Var(&listRadiusKm, "radius", 1, "Radius in kilometres for --near")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := report.ParseFormat(listOutputFormat)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", listOutputFormat),
			[]string{"Valid formats: default, jsonl, json"},
		)
	}

	since, until, err := timespec.ParseRange(listSince, listUntil, time.Now())
	if err != nil {
		return printer.Error("invalid time filter", err.Error(), []string{
			"Use a duration (2h, 30m), whole days (3d), a date (2025-06-10) or RFC3339",
		})
	}

	criteria := &filter.Criteria{
		SinceTimestampMs: since,
		UntilTimestampMs: until,
		NameGlob:         listName,
	}
	if listNear != "" {
		p, err := parsePoint(listNear)
		if err != nil {
			return printer.Error("invalid --near", err.Error(), []string{"Example: --near=48.8566,2.3522"})
		}
		if listRadiusKm < 0 {
			return printer.Error("invalid --radius", "The radius cannot be negative.", nil)
		}
		criteria.Near = p
		criteria.RadiusKm = listRadiusKm
	}

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	return report.ListObstacles(ctx, s.store, criteria, format, printer.Out())
}

func parsePoint(s string) (*filter.Point, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("expected LAT,LON, got '%s'", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude '%s'", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude '%s'", lonStr)
	}
	return &filter.Point{Latitude: lat, Longitude: lon}, nil
}

package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dyluth/roadlog/internal/geo"
	"github.com/dyluth/roadlog/internal/printer"
	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addDescription string
	addLatitude    float64
	addLongitude   float64

	editName        string
	editDescription string
	editLatitude    float64
	editLongitude   float64

	rmYes bool
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Record a new obstacle",
	Long: `Record a new obstacle at the current position.

The position comes from the location section of roadlog.yml unless --lat and
--lon are given. Without either, the obstacle is stored at 0,0.

Examples:
  roadlog add Pothole -d "Deep hole, right lane"
  roadlog add "Fallen tree" --lat=48.8566 --lon=2.3522`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit an obstacle",
	Long: `Edit the name or description of an obstacle.

Unspecified name and description keep their current values. The position is
captured again, as when the obstacle was first recorded, unless --lat and --lon
are given.

Examples:
  roadlog edit 1234 --name="Pothole (filled)"
  roadlog edit 1718000001234 -d "Marked with cones"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Remove an obstacle",
	Long: `Remove an obstacle after confirming.

Examples:
  roadlog rm 1234
  roadlog rm 1718000001234 --yes`,
	Args: cobra.ExactArgs(1),
	RunE:    runRm,
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Free-text description")
	addCmd.Flags().Float64Var(&addLatitude, "lat", 0, "Latitude (requires --lon)")
	addCmd.Flags().Float64Var(&addLongitude, "lon", 0, "Longitude (requires --lat)")
	addCmd.MarkFlagsRequiredTogether("lat", "lon")

	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	editCmd.Flags().Float64Var(&editLatitude, "lat", 0, "Latitude (requires --lon)")
	editCmd.Flags().Float64Var(&editLongitude, "lon", 0, "Longitude (requires --lat)")
	editCmd.MarkFlagsRequiredTogether("lat", "lon")

	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Remove without asking for confirmation")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		return nameRequiredError()
	}

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	fields := obstacle.Fields{Name: name, Description: addDescription}
	fields.Latitude, fields.Longitude = position(ctx, cmd, s, addLatitude, addLongitude)

	created, err := s.store.CreateObstacle(ctx, fields)
	if err != nil {
		s.logger.Error("Failed to create obstacle", zap.Error(err))
		return saveFailedError()
	}

	printer.Success("Obstacle '%s' recorded (ID %s)\n", created.Name, created.ID)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if cmd.Flags().Changed("name") && strings.TrimSpace(editName) == "" {
		return nameRequiredError()
	}

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := resolveObstacleID(ctx, s, args[0])
	if err != nil {
		return err
	}

	current, ok := s.store.Get(ctx, id)
	if !ok {
		return printer.Error(fmt.Sprintf("obstacle '%s' not found", id), "The obstacle was removed before it could be edited.", nil)
	}

	fields := current.Fields()
	if cmd.Flags().Changed("name") {
		fields.Name = editName
	}
	if cmd.Flags().Changed("description") {
		fields.Description = editDescription
	}
	fields.Latitude, fields.Longitude = position(ctx, cmd, s, editLatitude, editLongitude)

	if !s.store.Update(ctx, id, fields) {
		return saveFailedError()
	}

	printer.Success("Obstacle %s updated\n", id)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := resolveObstacleID(ctx, s, args[0])
	if err != nil {
		return err
	}

	if !rmYes {
		name := id
		if o, ok := s.store.Get(ctx, id); ok {
			name = o.Name
		}
		if !confirm(cmd, fmt.Sprintf("Remove obstacle '%s' (%s)? [y/N]: ", name, id)) {
			printer.Info("Cancelled, obstacle %s kept\n", id)
			return nil
		}
	}

	if !s.store.Delete(ctx, id) {
		return saveFailedError()
	}

	printer.Success("Obstacle %s removed\n", id)
	return nil
}

// confirm asks a yes/no question on the command's input. Anything but y or yes,
// including end of input, is a no.
func confirm(cmd *cobra.Command, question string) bool {
	printer.Printf("%s", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// position returns --lat/--lon when given, otherwise the current position from the locator.
func position(ctx context.Context, cmd *cobra.Command, s *session, lat, lon float64) (float64, float64) {
	if cmd.Flags().Changed("lat") {
		return lat, lon
	}
	pos := geo.Resolve(ctx, s.locator(), s.logger)
	return pos.Latitude, pos.Longitude
}

func nameRequiredError() error {
	return printer.Error(
		"name is required",
		"An obstacle needs a name.",
		[]string{"Example:\n  roadlog add Pothole -d \"Deep hole, right lane\""},
	)
}

func saveFailedError() error {
	return printer.Error(
		"failed to save obstacle",
		"An error occurred while writing the obstacle list.",
		[]string{"Run again with --verbose for details"},
	)
}

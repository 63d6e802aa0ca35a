package cli

import (
	"context"
	"fmt"

	"github.com/birdkeep/birdkeep/internal/remote"
	"github.com/birdkeep/birdkeep/pkg/models"
	"github.com/spf13/cobra"
)

var sightingsCmd = &cobra.Command{
	Use:   "sightings",
	Short: "Manage sighting records",
}

var (
	sightingPage remote.PageParams

	sightingSearch struct {
		birdName string
		location string
		from     string
		to       string
	}

	sightingFields struct {
		birdID   int64
		location string
		dateTime string
	}
)

var sightingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sightings page by page",
	Run: func(cmd *cobra.Command, args []string) {
		page, err := client().ListSightings(context.Background(), sightingPage)
		if err != nil {
			exitError("list sightings: %v", err)
		}
		renderSightingTable(page)
	},
}

var sightingsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search sightings by bird, location, and time range",
	Long: `Search sightings with optional criteria. --bird-name matches the
referenced bird's name exactly, ignoring case; --location matches a
case-insensitive substring. --from and --to are inclusive bounds in
2006-01-02T15:04:05 form, each usable on its own for an open-ended
range. Omitted criteria do not constrain the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		var from, to *models.DateTime
		if sightingSearch.from != "" {
			dt, err := models.ParseDateTime(sightingSearch.from)
			if err != nil {
				exitError("--from: %v", err)
			}
			from = &dt
		}
		if sightingSearch.to != "" {
			dt, err := models.ParseDateTime(sightingSearch.to)
			if err != nil {
				exitError("--to: %v", err)
			}
			to = &dt
		}

		page, err := client().SearchSightings(context.Background(),
			sightingSearch.birdName, sightingSearch.location, from, to, sightingPage)
		if err != nil {
			exitError("search sightings: %v", err)
		}
		renderSightingTable(page)
	},
}

var sightingsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single sighting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		s, err := client().GetSighting(context.Background(), id)
		if err != nil {
			exitError("get sighting: %v", err)
		}
		fmt.Printf("ID:       %d\nBird:     %s\nLocation: %s\nDate:     %s\n",
			s.ID, birdLabel(*s), s.Location, s.DateTime)
	},
}

var sightingsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new sighting",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := client().CreateSighting(context.Background(), models.Sighting{
			BirdID:   sightingFields.birdID,
			Location: sightingFields.location,
			DateTime: parseDateTimeFlag(sightingFields.dateTime),
		})
		if err != nil {
			exitError("add sighting: %v", err)
		}
		fmt.Printf("Created sighting %d at %s\n", s.ID, s.Location)
	},
}

var sightingsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace all fields of a sighting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		s, err := client().UpdateSighting(context.Background(), id, models.Sighting{
			BirdID:   sightingFields.birdID,
			Location: sightingFields.location,
			DateTime: parseDateTimeFlag(sightingFields.dateTime),
		})
		if err != nil {
			exitError("update sighting: %v", err)
		}
		fmt.Printf("Updated sighting %d\n", s.ID)
	},
}

var sightingsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sighting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		if err := client().DeleteSighting(context.Background(), id); err != nil {
			exitError("delete sighting: %v", err)
		}
		fmt.Printf("Deleted sighting %d\n", id)
	},
}

func addSightingFieldFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&sightingFields.birdID, "bird-id", 0, "id of the sighted bird")
	cmd.Flags().StringVar(&sightingFields.location, "location", "", "sighting location")
	cmd.Flags().StringVar(&sightingFields.dateTime, "at", "", "observation time, 2006-01-02T15:04:05")
	_ = cmd.MarkFlagRequired("bird-id")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("at")
}

func parseDateTimeFlag(s string) models.DateTime {
	dt, err := models.ParseDateTime(s)
	if err != nil {
		exitError("--at: %v", err)
	}
	return dt
}

func init() {
	addPageFlags(sightingsListCmd, &sightingPage)
	addPageFlags(sightingsSearchCmd, &sightingPage)
	sightingsSearchCmd.Flags().StringVar(&sightingSearch.birdName, "bird-name", "", "exact bird name, case-insensitive")
	sightingsSearchCmd.Flags().StringVar(&sightingSearch.location, "location", "", "location substring, case-insensitive")
	sightingsSearchCmd.Flags().StringVar(&sightingSearch.from, "from", "", "inclusive lower time bound")
	sightingsSearchCmd.Flags().StringVar(&sightingSearch.to, "to", "", "inclusive upper time bound")

	addSightingFieldFlags(sightingsAddCmd)
	addSightingFieldFlags(sightingsUpdateCmd)

	sightingsCmd.AddCommand(sightingsListCmd)
	sightingsCmd.AddCommand(sightingsSearchCmd)
	sightingsCmd.AddCommand(sightingsGetCmd)
	sightingsCmd.AddCommand(sightingsAddCmd)
	sightingsCmd.AddCommand(sightingsUpdateCmd)
	sightingsCmd.AddCommand(sightingsDeleteCmd)
}

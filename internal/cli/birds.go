package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/birdkeep/birdkeep/internal/remote"
	"github.com/birdkeep/birdkeep/pkg/models"
	"github.com/spf13/cobra"
)

var birdsCmd = &cobra.Command{
	Use:   "birds",
	Short: "Manage bird records",
}

var (
	birdPage  remote.PageParams
	birdName  string
	birdColor string

	birdFields struct {
		name   string
		color  string
		weight float64
		height float64
	}
)

var birdsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List birds page by page",
	Run: func(cmd *cobra.Command, args []string) {
		page, err := client().ListBirds(context.Background(), birdPage)
		if err != nil {
			exitError("list birds: %v", err)
		}
		renderBirdTable(page)
	},
}

var birdsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search birds by name and color",
	Long: `Search birds with optional criteria. --name matches a case-insensitive
substring of the bird name; --color matches the color exactly, ignoring
case. Omitted criteria do not constrain the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		page, err := client().SearchBirds(context.Background(), birdName, birdColor, birdPage)
		if err != nil {
			exitError("search birds: %v", err)
		}
		renderBirdTable(page)
	},
}

var birdsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single bird",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		bird, err := client().GetBird(context.Background(), id)
		if err != nil {
			exitError("get bird: %v", err)
		}
		fmt.Printf("ID:     %d\nName:   %s\nColor:  %s\nWeight: %.1f\nHeight: %.1f\n",
			bird.ID, bird.Name, bird.Color, bird.Weight, bird.Height)
	},
}

var birdsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new bird",
	Run: func(cmd *cobra.Command, args []string) {
		bird, err := client().CreateBird(context.Background(), models.Bird{
			Name:   birdFields.name,
			Color:  birdFields.color,
			Weight: birdFields.weight,
			Height: birdFields.height,
		})
		if err != nil {
			exitError("add bird: %v", err)
		}
		fmt.Printf("Created bird %d (%s)\n", bird.ID, bird.Name)
	},
}

var birdsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace all fields of a bird",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		bird, err := client().UpdateBird(context.Background(), id, models.Bird{
			Name:   birdFields.name,
			Color:  birdFields.color,
			Weight: birdFields.weight,
			Height: birdFields.height,
		})
		if err != nil {
			exitError("update bird: %v", err)
		}
		fmt.Printf("Updated bird %d (%s)\n", bird.ID, bird.Name)
	},
}

var birdsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a bird",
	Long: `Delete a bird by id. Sightings that reference it are kept; their
embedded bird details simply disappear from subsequent reads.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		if err := client().DeleteBird(context.Background(), id); err != nil {
			exitError("delete bird: %v", err)
		}
		fmt.Printf("Deleted bird %d\n", id)
	},
}

func addPageFlags(cmd *cobra.Command, page *remote.PageParams) {
	cmd.Flags().IntVar(&page.Page, "page", 0, "zero-based page index")
	cmd.Flags().IntVar(&page.Size, "size", 0, "page size (server default when omitted)")
	cmd.Flags().StringVar(&page.Sort, "sort", "", "sort as field,dir (e.g. name,desc)")
}

func addBirdFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&birdFields.name, "name", "", "bird name")
	cmd.Flags().StringVar(&birdFields.color, "color", "", "bird color")
	cmd.Flags().Float64Var(&birdFields.weight, "weight", 0, "bird weight")
	cmd.Flags().Float64Var(&birdFields.height, "height", 0, "bird height")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("color")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		exitError("id must be an integer, got %q", s)
	}
	return id
}

func init() {
	addPageFlags(birdsListCmd, &birdPage)
	addPageFlags(birdsSearchCmd, &birdPage)
	birdsSearchCmd.Flags().StringVar(&birdName, "name", "", "name substring, case-insensitive")
	birdsSearchCmd.Flags().StringVar(&birdColor, "color", "", "exact color, case-insensitive")

	addBirdFieldFlags(birdsAddCmd)
	addBirdFieldFlags(birdsUpdateCmd)

	birdsCmd.AddCommand(birdsListCmd)
	birdsCmd.AddCommand(birdsSearchCmd)
	birdsCmd.AddCommand(birdsGetCmd)
	birdsCmd.AddCommand(birdsAddCmd)
	birdsCmd.AddCommand(birdsUpdateCmd)
	birdsCmd.AddCommand(birdsDeleteCmd)
}

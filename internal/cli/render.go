package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/birdkeep/birdkeep/pkg/models"
	"github.com/fatih/color"
)

// renderBirdTable prints one page of birds followed by the page footer.
func renderBirdTable(page *models.Page[models.Bird]) {
	if page.Empty {
		fmt.Println("No birds found")
		renderPageFooter(page.Number, page.TotalPages, page.TotalElements)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tWEIGHT\tHEIGHT")
	for _, b := range page.Content {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.1f\n", b.ID, b.Name, b.Color, b.Weight, b.Height)
	}
	w.Flush()
	renderPageFooter(page.Number, page.TotalPages, page.TotalElements)
}

// renderSightingTable prints one page of sightings followed by the page
// footer. A sighting whose bird was deleted shows a dimmed placeholder in
// the bird column.
func renderSightingTable(page *models.Page[models.Sighting]) {
	if page.Empty {
		fmt.Println("No sightings found")
		renderPageFooter(page.Number, page.TotalPages, page.TotalElements)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBIRD\tLOCATION\tDATE")
	for _, s := range page.Content {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.ID, birdLabel(s), s.Location, s.DateTime)
	}
	w.Flush()
	renderPageFooter(page.Number, page.TotalPages, page.TotalElements)
}

func birdLabel(s models.Sighting) string {
	if s.Bird == nil {
		return color.New(color.Faint).Sprintf("(deleted #%d)", s.BirdID)
	}
	return fmt.Sprintf("%s (#%d)", s.Bird.Name, s.Bird.ID)
}

func renderPageFooter(number, totalPages int, total int64) {
	if totalPages == 0 {
		totalPages = 1
	}
	color.New(color.Faint).Printf("page %d of %d, %d total\n", number+1, totalPages, total)
}

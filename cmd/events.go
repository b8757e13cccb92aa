package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ticketscope/ticketscope/pkg/query"
)

// eventsCmd implements: ticketscope events
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Search events across all configured ticketing platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		searchTerm, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		city, _ := cmd.Flags().GetString("city")
		sortKey, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		engine := newEngine(cmd)
		res, err := engine.Events(cmd.Context(), query.Params{
			Search:   searchTerm,
			Category: category,
			City:     city,
			Sort:     sortKey,
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			return err
		}

		if res.Total == 0 {
			fmt.Println("No events found.")
			return nil
		}
		for _, m := range res.Items {
			best := m.BestOffer()
			date := "????-??-??"
			if !m.Date.IsZero() {
				date = m.Date.Format("2006-01-02")
			}
			fmt.Printf("%s  %-10s %s — %s\n", date, m.Category, m.Title, m.Venue)
			for _, o := range m.SortedOffers() {
				marker := " "
				if o == best {
					marker = "*"
				}
				fmt.Printf("  %s %-20s %d ₽\n", marker, o.Platform, o.Total())
			}
		}
		fmt.Printf("\nPage %d/%d, %d total", res.Page, res.TotalPages, res.Total)
		if res.HasMore {
			fmt.Print(" (more available)")
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().StringP("search", "s", "", "Search term (band, show, venue)")
	eventsCmd.Flags().StringP("category", "c", "all", "Category filter: concert, theatre, festival, exhibition, sport, standup, kids, other")
	eventsCmd.Flags().String("city", "all", "City filter")
	eventsCmd.Flags().String("sort", "date", "Sort key: date, price, name")
	eventsCmd.Flags().Int("page", 1, "Result page")
	eventsCmd.Flags().Int("limit", 20, "Results per page")
}

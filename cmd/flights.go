package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ticketscope/ticketscope/pkg/query"
)

// flightsCmd implements: ticketscope flights
var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Search flight prices across all configured platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		dateStr, _ := cmd.Flags().GetString("date")
		passengers, _ := cmd.Flags().GetInt("passengers")
		sortKey, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", dateStr)
		}

		engine := newEngine(cmd)
		res, err := engine.Flights(cmd.Context(), query.Params{
			Origin:      from,
			Destination: to,
			Date:        date,
			Passengers:  passengers,
			Sort:        sortKey,
			Page:        page,
			Limit:       limit,
		})
		if err != nil {
			return err
		}

		if res.Total == 0 {
			fmt.Println("No flights found.")
			return nil
		}
		for _, m := range res.Items {
			best := m.BestOffer()
			fmt.Printf("%-24s %-10s %-9s stops:%d  %dm\n",
				m.Airline, m.FlightNumber, m.Class, m.Stops, m.DurationMin)
			for _, o := range m.SortedOffers() {
				marker := " "
				if o == best {
					marker = "*"
				}
				fmt.Printf("  %s %-20s %d ₽\n", marker, o.Platform, o.Total())
			}
		}
		if res.Stats != nil {
			fmt.Printf("\n%d ₽ – %d ₽, %d airlines, %d direct\n",
				res.Stats.MinPrice, res.Stats.MaxPrice, res.Stats.Airlines, res.Stats.DirectFlights)
		}
		fmt.Printf("Page %d/%d, %d total\n", res.Page, res.TotalPages, res.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flightsCmd)

	flightsCmd.Flags().String("from", "", "Origin city/airport code (e.g. MOW)")
	flightsCmd.Flags().String("to", "", "Destination city/airport code (e.g. LED)")
	flightsCmd.Flags().String("date", "", "Departure date, YYYY-MM-DD")
	flightsCmd.Flags().Int("passengers", 1, "Passenger count")
	flightsCmd.Flags().String("sort", "price", "Sort key: price, stops, airline")
	flightsCmd.Flags().Int("page", 1, "Result page")
	flightsCmd.Flags().Int("limit", 20, "Results per page")

	flightsCmd.MarkFlagRequired("from")
	flightsCmd.MarkFlagRequired("to")
	flightsCmd.MarkFlagRequired("date")
}

package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ticketscope/ticketscope/internal/utils"
	"github.com/ticketscope/ticketscope/pkg/cache"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/platforms/afisha"
	"github.com/ticketscope/ticketscope/pkg/platforms/aviasales"
	"github.com/ticketscope/ticketscope/pkg/platforms/kassir"
	"github.com/ticketscope/ticketscope/pkg/platforms/parter"
	"github.com/ticketscope/ticketscope/pkg/platforms/s7"
	"github.com/ticketscope/ticketscope/pkg/platforms/ticketland"
	"github.com/ticketscope/ticketscope/pkg/platforms/yandextravel"
	"github.com/ticketscope/ticketscope/pkg/search"
)

// newEngine assembles the aggregation engine from the config file and
// global flags. Unknown platform names in the config are skipped with a
// warning so a typo never takes the whole registry down.
func newEngine(cmd *cobra.Command) *search.Engine {
	proxy, _ := cmd.Flags().GetString("proxy")
	timeout := time.Duration(viper.GetInt("adapters.timeout_seconds")) * time.Second
	ttl := time.Duration(viper.GetInt("cache.ttl_minutes")) * time.Minute

	var eventAdapters []platforms.Adapter
	for _, name := range viper.GetStringSlice("platforms.events") {
		switch name {
		case "kassir":
			eventAdapters = append(eventAdapters, kassir.New(proxy, timeout))
		case "ticketland":
			eventAdapters = append(eventAdapters, ticketland.New(proxy, timeout))
		case "afisha":
			eventAdapters = append(eventAdapters, afisha.New(proxy, timeout))
		case "parter":
			eventAdapters = append(eventAdapters, parter.New(proxy, timeout))
		default:
			utils.Log.Warnf("Unknown event platform in config: %s", name)
		}
	}

	var flightAdapters []platforms.Adapter
	for _, name := range viper.GetStringSlice("platforms.flights") {
		switch name {
		case "aviasales":
			flightAdapters = append(flightAdapters, aviasales.New(proxy, timeout))
		case "yandextravel":
			flightAdapters = append(flightAdapters, yandextravel.New(proxy, timeout))
		case "s7":
			flightAdapters = append(flightAdapters, s7.New(proxy, timeout))
		default:
			utils.Log.Warnf("Unknown flight platform in config: %s", name)
		}
	}

	return search.New(search.Config{
		EventAdapters:  eventAdapters,
		FlightAdapters: flightAdapters,
		Cache:          cache.New(ttl),
		AdapterTimeout: timeout,
		Log:            utils.Log,
		DemoFallback:   viper.GetBool("demo.fallback"),
	})
}

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ticketscope/ticketscope/internal/server"
	"github.com/ticketscope/ticketscope/internal/utils"
)

// warmUpTerms are the searches pre-computed by the scheduled refresh so
// the landing pages always hit a warm cache.
var warmUpTerms = []string{"", "концерт", "театр"}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ticketscope API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("server.listen")
		}
		refreshMinutes, _ := cmd.Flags().GetInt("refresh-interval")
		if !cmd.Flags().Changed("refresh-interval") {
			refreshMinutes = viper.GetInt("server.refresh_minutes")
		}

		engine := newEngine(cmd)

		if refreshMinutes > 0 {
			go func() {
				ticker := time.NewTicker(time.Duration(refreshMinutes) * time.Minute)
				defer ticker.Stop()
				for range ticker.C {
					utils.Log.Info("Scheduled cache refresh started")
					engine.WarmUp(context.Background(), warmUpTerms)
					utils.Log.Info("Scheduled cache refresh completed")
				}
			}()
		}

		srv := server.New(engine, viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from config, :8080)")
	serveCmd.Flags().Int("refresh-interval", 15, "Minutes between scheduled cache refreshes (0 to disable)")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ticketscope/ticketscope/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `  _   _      _        _
 | |_(_) ___| | _____| |_ ___  ___ ___  _ __   ___
 | __| |/ __| |/ / _ \ __/ __|/ __/ _ \| '_ \ / _ \
 | |_| | (__|   <  __/ |_\__ \ (_| (_) | |_) |  __/
  \__|_|\___|_|\_\___|\__|___/\___\___/| .__/ \___|
                                       |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ticketscope",
	Short: "A ticket and flight price aggregator.",
	Long: LOGO + `ticketscope searches several ticketing and flight platforms at once,
merges duplicate listings, and shows every platform's price side by side.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ticketscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".ticketscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.ticketscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default values for all keys
	viper.SetDefault("cache.ttl_minutes", 15)
	viper.SetDefault("adapters.timeout_seconds", 25)
	viper.SetDefault("demo.fallback", true)
	viper.SetDefault("platforms.events", []string{"kassir", "ticketland", "afisha", "parter"})
	viper.SetDefault("platforms.flights", []string{"aviasales", "yandextravel", "s7"})
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")
	viper.SetDefault("server.refresh_minutes", 15)

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

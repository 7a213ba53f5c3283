package cmd

import (
	"fmt"
	"os"

	"github.com/everFinance/xnames/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var cfg schema.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "xnames",
	Short:   "xnames",
	Long:    `xnames domain name token registry`,
	Version: "v0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "cfg", "", "cfg file (default is $./xnames.yaml)")
}

// initConfig reads in cfg file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use cfg file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("xnames")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a cfg file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		fmt.Println("can not find config file")
		panic(err)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}
}

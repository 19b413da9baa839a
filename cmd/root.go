package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kissit/website/internal/config"
)

var cfgFile string
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "kissit",
	Short: "kissit website",
	Long: `kissit serves the kissit marketing website: a landing page, the list of
projects we created, one page per project and a contact redirect. Content is
read from YAML files in the content directory when the server starts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	return nil
}

// loadConfig merges defaults, the optional config file and KISSIT_* environment variables.
func loadConfig(file string) (config.Config, error) {
	var cfg config.Config
	v := viper.New()

	def := config.Default()
	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("reload", def.Reload)
	v.SetDefault("ssl", def.SSL)
	v.SetDefault("contentDir", def.ContentDir)
	v.SetDefault("staticDir", def.StaticDir)
	v.SetDefault("companiesDir", def.CompaniesDir)
	v.SetDefault("outputDir", def.OutputDir)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("KISSIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No config file found in current directory. Using defaults and environment variables.")
		} else {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

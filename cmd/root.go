package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "super-hire"
)

type Config struct {
	Search    *SearchConfig    `mapstructure:"search"`
	AI        *AIConfig        `mapstructure:"ai"`
	Firecrawl *FirecrawlConfig `mapstructure:"firecrawl"`
	Store     *StoreConfig     `mapstructure:"store"`
}

type SearchConfig struct {
	MinScore    int `mapstructure:"min-score"`
	MaxResults  int `mapstructure:"max-results"`
	Limit       int `mapstructure:"limit"`
	Parallelism int `mapstructure:"parallelism"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile        string  `mapstructure:"api-key-file"`
	Model             string  `mapstructure:"model"`
	MaxRetries        int     `mapstructure:"max-retries"`
	RequestsPerMinute float64 `mapstructure:"requests-per-minute"`
}

type FirecrawlConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "super-hire is a cli for sourcing candidates from the web and reaching out to them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env file is optional, the shell environment wins on conflicts.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("firecrawl.api-key-file", "FIRECRAWL_API_KEY_FILE"); err != nil {
		log.Fatalf("binding FIRECRAWL_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is super-hire.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the search command now. If there is no config, we can skip initialization
	if searchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// Flags, environment and built-in defaults cover everything, so a
	// missing default config file is fine. An explicit --config is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Firecrawl == nil {
		config.Firecrawl = &FirecrawlConfig{}
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}

	return config, nil
}

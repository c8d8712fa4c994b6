package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Output struct {
		Path  string `yaml:"path"`
		Depth int    `yaml:"depth"`
	} `yaml:"output"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Kafka struct {
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
	} `yaml:"kafka"`

	Redis struct {
		Addr string `yaml:"addr"`
		Key  string `yaml:"key"`
	} `yaml:"redis"`

	Otel struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"otel"`

	Profile bool `yaml:"profile"`
	Print   bool `yaml:"-"`
}

// Default configuration values
var (
	configFile   = flag.String("config", "", "Path to config file (YAML)")
	outputPath   = flag.String("output", "mbp_output.csv", "Snapshot output file path")
	depth        = flag.Int("depth", 10, "Book levels per side in each snapshot")
	logLevel     = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat    = flag.String("log_format", "pretty", "Log format: json, pretty")
	kafkaBroker  = flag.String("kafka_broker", "", "Kafka broker for snapshot publishing (disabled when empty)")
	kafkaTopic   = flag.String("kafka_topic", "mbp-snapshots", "Kafka topic for snapshot publishing")
	redisAddr    = flag.String("redis_addr", "", "Redis address for latest-book publishing (disabled when empty)")
	redisKey     = flag.String("redis_key", "booksnap:latest", "Redis key holding the latest snapshot")
	otelEndpoint = flag.String("otel_endpoint", "", "OTLP collector endpoint (disabled when empty)")
	profile      = flag.Bool("profile", false, "Record per-event apply latency")
	printBook    = flag.Bool("print", false, "Render the final top-of-book to the terminal")
)

// LoadConfig loads the configuration from command line flags and
// optionally from a config file. It returns the remaining positional
// arguments (the input file path).
func LoadConfig() (*Config, []string, error) {
	// Parse command line flags
	flag.Parse()

	// Create default configuration
	config := &Config{}
	config.Output.Path = *outputPath
	config.Output.Depth = *depth
	config.Log.Level = *logLevel
	config.Log.Format = *logFormat
	config.Kafka.BrokerAddr = *kafkaBroker
	config.Kafka.Topic = *kafkaTopic
	config.Redis.Addr = *redisAddr
	config.Redis.Key = *redisKey
	config.Otel.Endpoint = *otelEndpoint
	config.Profile = *profile
	config.Print = *printBook

	// Load configuration from file if specified
	if *configFile != "" {
		yamlFile, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML configuration
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Log loaded configuration
		log.Printf("Loaded configuration from %s", *configFile)
	}

	if config.Output.Depth <= 0 {
		return nil, nil, fmt.Errorf("depth must be positive, got %d", config.Output.Depth)
	}

	return config, flag.Args(), nil
}

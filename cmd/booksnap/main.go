package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/erain9/booksnap/config"
	"github.com/erain9/booksnap/pkg/backend/memory"
	"github.com/erain9/booksnap/pkg/core"
	"github.com/erain9/booksnap/pkg/logging"
	"github.com/erain9/booksnap/pkg/otel"
	"github.com/erain9/booksnap/pkg/replay"
	"github.com/erain9/booksnap/pkg/sink"
)

func main() {
	// Load configuration
	cfg, args, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Format == "pretty",
	})
	ctx := context.Background()
	logger := logging.FromContext(ctx)

	if len(args) < 1 {
		logger.Fatal().Msg("Usage: booksnap [flags] <input_csv_path>")
	}

	input, err := os.Open(args[0])
	if err != nil {
		logger.Fatal().Err(err).Str("path", args[0]).Msg("Could not open input file")
	}
	defer input.Close()

	// The destination is created before any event processing so an
	// unwritable path fails up front
	fileSink, err := sink.NewFileSink(cfg.Output.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("Could not open output file")
	}

	extras := setupSecondarySinks(cfg, logger)
	metrics, otelCleanup := setupMetrics(cfg, logger)
	defer otelCleanup()

	book := core.NewBook(memory.NewMemoryBackend())

	opts := []replay.Option{
		replay.WithDepth(cfg.Output.Depth),
		replay.WithLogger(logger),
		replay.WithSinks(extras...),
		replay.WithMetrics(metrics),
	}
	if cfg.Profile {
		opts = append(opts, replay.WithProfile())
	}

	replayer := replay.New(book, fileSink, opts...)
	if err := replayer.Run(ctx, input); err != nil {
		logger.Fatal().Err(err).Msg("Replay failed")
	}

	if err := fileSink.Close(); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("Could not write output file")
	}
	for _, s := range extras {
		if err := s.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close secondary sink")
		}
	}

	if cfg.Print {
		printBook(book, cfg.Output.Depth)
	}
}

// setupSecondarySinks builds the optional Kafka and Redis publishers.
// Both are best-effort; a missing broker never fails the run.
func setupSecondarySinks(cfg *config.Config, logger zerolog.Logger) []sink.Sink {
	var extras []sink.Sink

	if cfg.Kafka.BrokerAddr != "" {
		extras = append(extras, sink.NewKafkaSink(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic))
		logger.Info().Str("broker", cfg.Kafka.BrokerAddr).Str("topic", cfg.Kafka.Topic).Msg("Publishing snapshots to Kafka")
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		zapLogger, err := zap.NewProduction()
		if err != nil {
			zapLogger = zap.NewNop()
		}
		extras = append(extras, sink.NewRedisSink(client, cfg.Redis.Key, zapLogger))
		logger.Info().Str("addr", cfg.Redis.Addr).Str("key", cfg.Redis.Key).Msg("Publishing latest book to Redis")
	}

	return extras
}

// setupMetrics initializes the OTLP pipeline when a collector is
// configured; otherwise replay counters are no-ops. The returned
// cleanup flushes the exporter and is always safe to call.
func setupMetrics(cfg *config.Config, logger zerolog.Logger) (*otel.RunMetrics, func()) {
	noop := func() {}
	if cfg.Otel.Endpoint == "" {
		return nil, noop
	}

	cleanup, err := otel.Init(otel.Config{Endpoint: cfg.Otel.Endpoint})
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize OpenTelemetry - continuing without metrics")
		return nil, noop
	}

	metrics, err := otel.NewRunMetrics()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create run metrics - continuing without metrics")
		return nil, cleanup
	}
	return metrics, cleanup
}

// printBook renders the final top-of-book as a terminal ladder
func printBook(book *core.Book, depth int) {
	color.NoColor = false
	cyan := color.New(color.FgCyan).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "%15s|%15s|%s\n", cyan("Price"), cyan("Size"), cyan("Side"))
	fmt.Fprintf(w, "%15s|%15s|%s\n", "---------------", "---------------", "----")

	// Asks print worst to best so the spread sits in the middle
	asks := book.AskLevels(depth)
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%15s|%15d|%s\n", core.FormatPrice(asks[i].Price), asks[i].Size, red("ASK"))
	}

	fmt.Fprintf(w, "%15s|%15s|%s\n", "---------------", "---------------", "----")

	for _, level := range book.BidLevels(depth) {
		fmt.Fprintf(w, "%15s|%15d|%s\n", core.FormatPrice(level.Price), level.Size, green("BID"))
	}

	w.Flush()
}

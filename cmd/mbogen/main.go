package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// Config holds all configuration for the feed generator
type Config struct {
	NumEvents    int
	Seed         int64
	MidPrice     float64
	InstrumentID int
	OutPath      string // "-" streams to stdout
	RateLimit    int    // events per second, 0 = unlimited
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("MBOGEN_NUM_EVENTS", 10000)
	v.SetDefault("MBOGEN_SEED", 42)
	v.SetDefault("MBOGEN_MID_PRICE", 100.0)
	v.SetDefault("MBOGEN_INSTRUMENT_ID", 1108)
	v.SetDefault("MBOGEN_OUT_PATH", "mbo_input.csv")
	v.SetDefault("MBOGEN_RATE_LIMIT", 0)

	// Allow environment variables
	v.AutomaticEnv()

	cfg := &Config{
		NumEvents:    v.GetInt("MBOGEN_NUM_EVENTS"),
		Seed:         v.GetInt64("MBOGEN_SEED"),
		MidPrice:     v.GetFloat64("MBOGEN_MID_PRICE"),
		InstrumentID: v.GetInt("MBOGEN_INSTRUMENT_ID"),
		OutPath:      v.GetString("MBOGEN_OUT_PATH"),
		RateLimit:    v.GetInt("MBOGEN_RATE_LIMIT"),
	}

	if cfg.NumEvents <= 0 {
		return nil, fmt.Errorf("MBOGEN_NUM_EVENTS must be positive")
	}
	if cfg.MidPrice <= 0 {
		return nil, fmt.Errorf("MBOGEN_MID_PRICE must be positive")
	}

	return cfg, nil
}

// liveOrder tracks a synthetic resting order so cancels and fills
// reference real identifiers
type liveOrder struct {
	price float64
	size  int64
	side  string
}

const header = "ts_recv,ts_event,rtype,publisher_id,instrument_id,action,side,price,size,channel_id,order_id,flags,ts_in_delta,sequence"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	out := os.Stdout
	if cfg.OutPath != "-" {
		out, err = os.Create(cfg.OutPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}
	ctx := context.Background()

	r := rand.New(rand.NewSource(cfg.Seed))
	clock := time.Date(2025, 7, 17, 8, 0, 0, 0, time.UTC)
	seq := 1
	nextID := uint64(1000000)
	live := make(map[uint64]*liveOrder)
	ids := make([]uint64, 0, 1024)

	fmt.Fprintln(w, header)

	// Leading reset marks the start of session, like a real feed
	writeEvent(w, cfg, clock, "R", "", 0, 0, 0, seq)
	seq++

	for i := 0; i < cfg.NumEvents; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				log.Fatalf("Rate limiter error: %v", err)
			}
			w.Flush()
		}

		clock = clock.Add(time.Duration(1+r.Intn(900)) * time.Microsecond)

		roll := r.Float64()
		switch {
		case roll < 0.55 || len(ids) == 0:
			// Add
			side := "B"
			offset := -r.Float64() * 2
			if r.Float64() < 0.5 {
				side = "A"
				offset = r.Float64() * 2
			}
			price := cfg.MidPrice + offset
			size := int64(1 + r.Intn(100))
			id := nextID
			nextID++
			live[id] = &liveOrder{price: price, size: size, side: side}
			ids = append(ids, id)
			writeEvent(w, cfg, clock, "A", side, price, size, id, seq)
		case roll < 0.80:
			// Cancel a random live order
			idx := r.Intn(len(ids))
			id := ids[idx]
			order := live[id]
			writeEvent(w, cfg, clock, "C", order.side, order.price, order.size, id, seq)
			delete(live, id)
			ids[idx] = ids[len(ids)-1]
			ids = ids[:len(ids)-1]
		default:
			// Fill part or all of a random live order
			idx := r.Intn(len(ids))
			id := ids[idx]
			order := live[id]
			fill := 1 + r.Int63n(order.size)
			writeEvent(w, cfg, clock, "F", order.side, order.price, fill, id, seq)
			order.size -= fill
			if order.size <= 0 {
				delete(live, id)
				ids[idx] = ids[len(ids)-1]
				ids = ids[:len(ids)-1]
			}
		}
		seq++
	}

	log.Printf("Generated %d events to %s", cfg.NumEvents, cfg.OutPath)
}

// writeEvent emits one MBO record in the fixed field layout the
// reconstruction reads (action at 5, side at 6, price at 7, size at
// 8, order id at 10)
func writeEvent(w *bufio.Writer, cfg *Config, ts time.Time, action, side string, price float64, size int64, orderID uint64, seq int) {
	tsStr := ts.Format("2006-01-02T15:04:05.000000000Z")

	priceStr := ""
	sizeStr := ""
	idStr := ""
	if action != "R" {
		priceStr = fmt.Sprintf("%.2f", price)
		sizeStr = fmt.Sprintf("%d", size)
		idStr = fmt.Sprintf("%d", orderID)
	}

	fmt.Fprintf(w, "%s,%s,160,2,%d,%s,%s,%s,%s,0,%s,130,165000,%d\n",
		tsStr, tsStr, cfg.InstrumentID, action, side, priceStr, sizeStr, idStr, seq)
}

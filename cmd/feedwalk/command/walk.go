package command

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FashtimeDotCom/feedwalk/pkg/client"
	"github.com/FashtimeDotCom/feedwalk/pkg/feed"
	"github.com/FashtimeDotCom/feedwalk/pkg/logging"
)

// WalkCommand traverses a paginated feed and prints its entries in
// document order.
type WalkCommand struct {
	ShutDownCh <-chan struct{}
}

func (c *WalkCommand) Help() string {
	helpText := `
Usage: feedwalk walk [options] <feed-url>

  Follows the feed's rel="next" chain and prints every entry in order.
  Pages are fetched lazily, one at a time, as entries are consumed.

Options:

	-max-pages=0	Stop with an error after this many page fetches (0 = unlimited)
	-max-items=0	Stop after printing this many entries (0 = unlimited)
	-per-page=0	Request this page size from the origin (0 = origin default)
	-prefetch	Fetch one page ahead of consumption
	-redis=""	Redis address for the page cache (empty = no cache)
	-user-agent=""	User-Agent header sent to the origin (required)
	-interval=1s	Minimum delay between requests to the same host
	-log-level=info	Log level (debug, info, warn, error)
	-pretty		Human-readable log output
`

	return strings.TrimSpace(helpText)
}

func (c *WalkCommand) Synopsis() string {
	return "Walk a paginated feed and print its entries"
}

func (c *WalkCommand) Run(args []string) int {
	var (
		maxPages  int
		maxItems  int
		perPage   int
		prefetch  bool
		redisAddr string
		userAgent string
		interval  time.Duration
		logLevel  string
		pretty    bool
	)

	cmdFlags := flag.NewFlagSet("walk", flag.ExitOnError)
	cmdFlags.IntVar(&maxPages, "max-pages", 0, "page fetch limit")
	cmdFlags.IntVar(&maxItems, "max-items", 0, "entry limit")
	cmdFlags.IntVar(&perPage, "per-page", 0, "requested page size")
	cmdFlags.BoolVar(&prefetch, "prefetch", false, "fetch one page ahead")
	cmdFlags.StringVar(&redisAddr, "redis", "", "redis address")
	cmdFlags.StringVar(&userAgent, "user-agent", "", "user-agent header")
	cmdFlags.DurationVar(&interval, "interval", time.Second, "minimum per-host request interval")
	cmdFlags.StringVar(&logLevel, "log-level", "info", "log level")
	cmdFlags.BoolVar(&pretty, "pretty", false, "human-readable logs")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	if cmdFlags.NArg() != 1 {
		_, _ = fmt.Fprintln(os.Stderr, "Error: exactly one feed URL is required")
		return 1
	}
	feedURL := cmdFlags.Arg(0)

	if userAgent == "" {
		_, _ = fmt.Fprintln(os.Stderr, "Error: -user-agent is required")
		return 1
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: pretty,
	})
	logger := logging.NewLogger("walk-command")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-c.ShutDownCh
		logger.Info().Msg("Shutdown requested, stopping walk")
		cancel()
	}()

	redisClient, err := connectRedis(ctx, redisAddr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error connecting to Redis: %s\n", err.Error())
		return 1
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	cfg := client.DefaultConfig(redisClient, userAgent)
	cfg.MinRequestInterval = interval
	feedClient, err := client.New(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating client: %s\n", err.Error())
		return 1
	}

	opts := client.WalkOptions{
		MaxPages: maxPages,
		Prefetch: prefetch,
	}
	if perPage > 0 {
		opts.Params = &feed.PageParams{PerPage: perPage}
	}

	printed := 0
	for entry, err := range feedClient.Walk(ctx, feedURL, opts) {
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
			return 1
		}

		printEntry(entry)
		printed++
		if maxItems > 0 && printed >= maxItems {
			break
		}
	}

	logger.Info().Int("entries", printed).Msg("Walk complete")
	return 0
}

func printEntry(entry feed.Entry) {
	line := entry.Title
	if line == "" {
		line = entry.ID
	}
	if entry.Link != "" {
		line = line + "\t" + entry.Link
	}
	if !entry.Updated.IsZero() {
		line = line + "\t" + entry.Updated.Format(time.RFC3339)
	}
	fmt.Println(line)
}

// connectRedis dials Redis when an address is given. An empty address
// disables the page cache and shared politeness state.
func connectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	redisClient := redis.NewClient(&redis.Options{Addr: addr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, err
	}
	return redisClient, nil
}

package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/FashtimeDotCom/feedwalk/pkg/client"
	"github.com/FashtimeDotCom/feedwalk/pkg/logging"
)

// ServeCommand runs a caching fetch proxy. Requests to /fetch go
// through the shared client, so repeated fetches of the same page are
// served from the cache and per-host politeness is enforced for all
// callers behind the proxy.
type ServeCommand struct {
	ShutDownCh <-chan struct{}
}

func (c *ServeCommand) Help() string {
	helpText := `
Usage: feedwalk serve [options]

  Starts an HTTP proxy that fetches feed pages through the shared
  cache and politeness layer. Endpoints:

	GET /fetch?url=<page-url>	Fetch a page through the cache
	GET /health			Liveness check
	GET /metrics			Prometheus metrics

Options:

	-addr=":8080"	Listen address
	-redis=""	Redis address for the page cache (empty = no cache)
	-user-agent=""	User-Agent header sent to origins (required)
	-log-level=info	Log level (debug, info, warn, error)
	-pretty		Human-readable log output
`

	return strings.TrimSpace(helpText)
}

func (c *ServeCommand) Synopsis() string {
	return "Run a caching feed page proxy"
}

func (c *ServeCommand) Run(args []string) int {
	var (
		addr      string
		redisAddr string
		userAgent string
		logLevel  string
		pretty    bool
	)

	cmdFlags := flag.NewFlagSet("serve", flag.ExitOnError)
	cmdFlags.StringVar(&addr, "addr", ":8080", "listen address")
	cmdFlags.StringVar(&redisAddr, "redis", "", "redis address")
	cmdFlags.StringVar(&userAgent, "user-agent", "", "user-agent header")
	cmdFlags.StringVar(&logLevel, "log-level", "info", "log level")
	cmdFlags.BoolVar(&pretty, "pretty", false, "human-readable logs")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	if userAgent == "" {
		_, _ = fmt.Fprintln(os.Stderr, "Error: -user-agent is required")
		return 1
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: pretty,
	})
	logger := logging.NewLogger("serve-command")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := connectRedis(ctx, redisAddr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error connecting to Redis: %s\n", err.Error())
		return 1
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	feedClient, err := client.New(client.DefaultConfig(redisClient, userAgent))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating client: %s\n", err.Error())
		return 1
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/fetch", fetchHandler(feedClient, logger))

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-c.ShutDownCh
		logger.Info().Msg("Shutdown requested, stopping server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("Starting feed page proxy")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		_, _ = fmt.Fprintf(os.Stderr, "Server failed: %s\n", err.Error())
		return 1
	}

	return 0
}

func fetchHandler(feedClient *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageURL := r.URL.Query().Get("url")
		if pageURL == "" {
			http.Error(w, "missing url parameter", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		resp, err := feedClient.Get(ctx, pageURL)
		if err != nil {
			http.Error(w, fmt.Sprintf("fetch failed: %v", err), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		for key, values := range resp.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(w, resp.Body); err != nil {
			logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to write response body")
		}
	}
}

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"teralink/downloader"
	"teralink/internal"
	"teralink/server"
)

var (
	host     string
	port     int
	timeout  int
	proxyURL string
	debug    bool
	quiet    bool
	logLevel string
	logFile  string
	config   *internal.Config
)

var rootCmd = &cobra.Command{
	Use:     "teralink",
	Short:   "Serve a JSON API that resolves Terabox share links",
	Version: "1.0.0",
	Long: `TeraLink is a small HTTP service that accepts Terabox share links,
queries the Terabox listing and download APIs, and returns normalized JSON
describing the referenced file (name, size, thumbnail, direct download link).

Examples:
  teralink
  teralink --port 8080
  teralink --host 127.0.0.1 --port 8080 --proxy socks5://proxy:1080

Endpoints:
  GET  /                 service descriptor
  POST /api/download     file metadata plus resolved download link
  POST /api/info         file metadata only
  GET  /health           liveness probe

Environment Variables:
  TERALINK_HOST        Bind address
  TERALINK_PORT        Bind port
  TERALINK_TIMEOUT     Upstream HTTP timeout in seconds
  TERALINK_PROXY       Outbound proxy URL
  TERALINK_LOG_LEVEL   Log level (debug, info, warn, error)
  TERALINK_LOG_FILE    Write logs to file instead of stderr

DISCLAIMER: Respect Terabox's Terms of Service and copyright laws.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(cmd); err != nil {
			return fmt.Errorf("configuration error: %v", err)
		}

		if err := internal.InitLogger(config); err != nil {
			return fmt.Errorf("failed to initialize logger: %v", err)
		}

		log.Debugf("configuration loaded: addr=%s, timeout=%ds, debug=%v", config.Addr(), config.UpstreamTimeout, config.EnableDebug)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := downloader.NewClient(config)
		if err != nil {
			return fmt.Errorf("failed to create Terabox client: %w", err)
		}

		srv := server.New(config, client)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Infof("TeraLink starting on %s", config.Addr())
		return srv.Run(ctx)
	},
}

// loadConfiguration merges defaults, environment variables and CLI flags, in
// that order of precedence.
func loadConfiguration(cmd *cobra.Command) error {
	config = internal.DefaultConfig()
	config.LoadFromEnv()

	if cmd.Flags().Changed("host") {
		config.Host = host
	}
	if cmd.Flags().Changed("port") {
		config.Port = port
	}
	if cmd.Flags().Changed("timeout") {
		config.UpstreamTimeout = timeout
	}
	if cmd.Flags().Changed("proxy") {
		config.ProxyURL = proxyURL
	}

	if debug {
		config.EnableDebug = true
		config.LogLevel = "debug"
	}
	if quiet {
		config.QuietMode = true
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFile != "" {
		config.LogFile = logFile
	}

	return config.ValidateConfig()
}

func init() {
	config = internal.DefaultConfig()

	rootCmd.Flags().StringVar(&host, "host", config.Host, "Bind address (env: TERALINK_HOST)")
	rootCmd.Flags().IntVarP(&port, "port", "p", config.Port, "Bind port (env: TERALINK_PORT)")
	rootCmd.Flags().IntVar(&timeout, "timeout", config.UpstreamTimeout, "Upstream HTTP timeout in seconds (env: TERALINK_TIMEOUT)")
	rootCmd.Flags().StringVar(&proxyURL, "proxy", "", "HTTP/SOCKS proxy URL for outbound calls (env: TERALINK_PROXY)")

	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging (env: TERALINK_DEBUG)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Log errors only (env: TERALINK_QUIET)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Set log level (debug, info, warn, error) (env: TERALINK_LOG_LEVEL)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (env: TERALINK_LOG_FILE)")
}

func Execute() error {
	return rootCmd.Execute()
}

package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qualens/qualens/infrastructure/auth"
	"github.com/qualens/qualens/ui/rest"
	"github.com/qualens/qualens/ui/rest/middleware"
	"github.com/qualens/qualens/ui/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local dashboard gateway",
	Long: `Run a local HTTP gateway exposing the quality facades as JSON
endpoints plus a websocket channel for live job status. This is what the
dashboard frontend talks to.`,
	Run: gatewayServer,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "gateway port | example: --port=3000")
	serveCmd.Flags().String("basic-auth", "", "basic auth credentials (format: user:pass,user2:pass2)")
	rootCmd.AddCommand(serveCmd)
}

func gatewayServer(cmd *cobra.Command, _ []string) {
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Gateway.Port = port
	}
	if ba, _ := cmd.Flags().GetString("basic-auth"); ba != "" {
		cfg.Gateway.BasicAuth = strings.Split(ba, ",")
	}

	fiberConfig := fiber.Config{
		AppName:               "Qualens Gateway " + cfg.App.Version,
		Network:               "tcp",
		DisableStartupMessage: false,
	}
	if len(cfg.Gateway.TrustedProxies) > 0 {
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = cfg.Gateway.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedFor
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Gateway.CorsAllowedOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	if len(cfg.Gateway.BasicAuth) > 0 {
		account := make(map[string]string)
		for _, credential := range cfg.Gateway.BasicAuth {
			parts := strings.Split(credential, ":")
			if len(parts) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the format <user>:<secret>")
			}
			account[parts[0]] = parts[1]
		}
		app.Use(basicauth.New(basicauth.Config{Users: account}))
	}

	apiGroup := app.Group("/api")
	rest.InitRestSession(apiGroup, authService)
	rest.InitRestConnection(apiGroup, connectionUsecase)
	rest.InitRestSchema(apiGroup, schemaUsecase)
	rest.InitRestProfiling(apiGroup, profilingUsecase)
	rest.InitRestValidation(apiGroup, validationUsecase)
	rest.InitRestMetadata(apiGroup, metadataUsecase)
	rest.InitRestAdmin(apiGroup, adminUsecase)
	rest.InitRestAnalytics(apiGroup, analyticsUsecase)
	rest.InitRestAnomaly(apiGroup, anomalyUsecase)
	rest.InitRestAutomation(apiGroup, automationUsecase)
	rest.InitRestDashboard(apiGroup, dashboardUsecase)
	rest.InitRestCache(apiGroup, responseCache, stateStore)

	hub := websocket.NewHub(profilingUsecase, automationUsecase, cfg.Gateway.JobPollInterval)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)
	hub.RegisterRoutes(app)

	// Dashboard clients learn about session changes over the same channel.
	unsubscribe := authService.OnAuthStateChange(func(event string, _ *auth.Session) {
		hub.Broadcast(websocket.BroadcastMessage{Code: event})
	})
	defer unsubscribe()

	if metricsRegistry != nil {
		go serveMetrics()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[GATEWAY] Termination signal received, shutting down gracefully...")
		stopHub()
		apiClient.CancelAll("")
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	logrus.Infof("[GATEWAY] Listening on :%s", cfg.Gateway.Port)
	if err := app.Listen(":" + cfg.Gateway.Port); err != nil {
		logrus.Fatalf("Failed to start gateway: %v", err)
	}

	if err := responseCache.Close(); err != nil {
		logrus.Warnf("[GATEWAY] Cache close failed: %v", err)
	}
}

// serveMetrics runs the Prometheus endpoint on its own listener so scrapes
// bypass the gateway's auth and CORS stack.
func serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))

	addr := ":" + cfg.Gateway.MetricsPort
	logrus.Infof("[GATEWAY] Metrics on %s/metrics", addr)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Warnf("[GATEWAY] Metrics server stopped: %v", err)
	}
}

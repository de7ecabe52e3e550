package cmd

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qualens/qualens/core/config"
	"github.com/qualens/qualens/core/database"
	domainAdmin "github.com/qualens/qualens/domains/admin"
	domainAnalytics "github.com/qualens/qualens/domains/analytics"
	domainAnomaly "github.com/qualens/qualens/domains/anomaly"
	domainAutomation "github.com/qualens/qualens/domains/automation"
	domainConnection "github.com/qualens/qualens/domains/connection"
	domainDashboard "github.com/qualens/qualens/domains/dashboard"
	domainMetadata "github.com/qualens/qualens/domains/metadata"
	domainProfiling "github.com/qualens/qualens/domains/profiling"
	domainSchema "github.com/qualens/qualens/domains/schema"
	domainValidation "github.com/qualens/qualens/domains/validation"
	"github.com/qualens/qualens/infrastructure/api"
	"github.com/qualens/qualens/infrastructure/auth"
	"github.com/qualens/qualens/infrastructure/cache"
	"github.com/qualens/qualens/infrastructure/state"
	"github.com/qualens/qualens/integrations/insights"
	"github.com/qualens/qualens/pkg/utils"
	"github.com/qualens/qualens/usecase"
)

var (
	cfg *config.Config

	authService     *auth.Service
	responseCache   *cache.ResponseCache
	apiClient       *api.Client
	stateStore      *state.Store
	metricsRegistry *prometheus.Registry

	connectionUsecase domainConnection.IConnectionUsecase
	schemaUsecase     domainSchema.ISchemaUsecase
	profilingUsecase  domainProfiling.IProfilingUsecase
	validationUsecase domainValidation.IValidationUsecase
	metadataUsecase   domainMetadata.IMetadataUsecase
	adminUsecase      domainAdmin.IAdminUsecase
	analyticsUsecase  domainAnalytics.IAnalyticsUsecase
	anomalyUsecase    domainAnomaly.IAnomalyUsecase
	automationUsecase domainAutomation.IAutomationUsecase
	dashboardUsecase  domainDashboard.IDashboardUsecase
)

var rootCmd = &cobra.Command{
	Use:   "qualens",
	Short: "Data-quality monitoring client",
	Long: `Qualens is the client for the data-quality monitoring backend:
inspect connections, table profiles, schema drift, validation rules,
anomalies and automation schedules from the command line, or run the
local dashboard gateway with "qualens serve".`,
}

func init() {
	utils.LoadConfig(".")
	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()
	cobra.OnInitialize(initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().String("api-url", "", `backend API base URL --api-url <string> | example: --api-url="https://api.qualens.dev/api/v1"`)
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose logging --debug <true/false> | example: --debug=true")
	rootCmd.PersistentFlags().String("cache-mirror", "", `durable cache mirror --cache-mirror <bolt/valkey/off> | example: --cache-mirror=off`)

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("cache_mirror", rootCmd.PersistentFlags().Lookup("cache-mirror"))
}

func initApp() {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		logrus.Fatalln("Failed to load configuration:", err)
	}

	// Flag overrides.
	if v := viper.GetString("api_url"); v != "" {
		cfg.API.BaseURL = v
	}
	if viper.GetBool("debug") {
		cfg.App.Debug = true
	}
	if v := viper.GetString("cache_mirror"); v != "" {
		cfg.Cache.Mirror = v
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if err := utils.CreateFolder(cfg.Paths.Storages); err != nil {
		logrus.Fatalln("Failed to create storage folder:", err)
	}

	authService = auth.NewService(auth.Config{
		URL:           cfg.Auth.URL,
		AnonKey:       cfg.Auth.AnonKey,
		RefreshWindow: cfg.Auth.RefreshWindow,
		SessionFile:   cfg.Auth.SessionFile,
	})

	responseCache = cache.New(cache.Options{
		Mirror:     openMirror(),
		DefaultTTL: cfg.Cache.DefaultTTL,
	})

	var apiMetrics *api.Metrics
	if cfg.API.MetricsEnabled {
		metricsRegistry = prometheus.NewRegistry()
		apiMetrics = api.NewMetrics(metricsRegistry)
	}

	apiClient = api.New(api.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		Session:       authService,
		Cache:         responseCache,
		RateLimit:     cfg.API.RateLimit,
		RateBurst:     cfg.API.RateBurst,
		Batch401Delay: cfg.API.Batch401Delay,
		Metrics:       apiMetrics,
		OnSignOut: func() {
			logrus.Warn("Session expired; sign in again with `qualens session signin`")
		},
	})

	// A fresh sign-in re-enables the one-shot forced sign-out guard.
	authService.OnAuthStateChange(func(event string, _ *auth.Session) {
		if event == auth.EventSignedIn {
			apiClient.RearmSignOut()
		}
	})

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalln("Failed to open state database:", err)
	}
	stateStore, err = state.New(db)
	if err != nil {
		logrus.Fatalln("Failed to migrate state database:", err)
	}

	var explainer usecase.Explainer
	if cfg.Insights.GeminiAPIKey != "" {
		explainer = insights.NewService(cfg.Insights.GeminiAPIKey, cfg.Insights.Model)
	}

	connectionUsecase = usecase.NewConnectionService(apiClient)
	schemaUsecase = usecase.NewSchemaService(apiClient)
	profilingUsecase = usecase.NewProfilingService(apiClient)
	validationUsecase = usecase.NewValidationService(apiClient)
	metadataUsecase = usecase.NewMetadataService(apiClient)
	adminUsecase = usecase.NewAdminService(apiClient)
	analyticsUsecase = usecase.NewAnalyticsService(apiClient)
	anomalyUsecase = usecase.NewAnomalyService(apiClient, explainer)
	automationUsecase = usecase.NewAutomationService(apiClient)
	dashboardUsecase = usecase.NewDashboardService(apiClient, connectionUsecase)
}

// openMirror returns nil when no durable mirror is configured; the cache
// runs memory-only in that case.
func openMirror() cache.Mirror {
	switch cfg.Cache.Mirror {
	case "bolt":
		mirror, err := cache.OpenBolt(cfg.Cache.BoltPath)
		if err != nil {
			logrus.Warnf("[CACHE] Could not open bolt mirror, continuing without: %v", err)
			return nil
		}
		return mirror
	case "valkey":
		mirror, err := cache.OpenValkey(cache.ValkeyConfig{
			Address:   cfg.Valkey.Address,
			Password:  cfg.Valkey.Password,
			DB:        cfg.Valkey.DB,
			KeyPrefix: cfg.Valkey.KeyPrefix,
		})
		if err != nil {
			logrus.Warnf("[CACHE] Could not connect to valkey mirror, continuing without: %v", err)
			return nil
		}
		return mirror
	default:
		return nil
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}

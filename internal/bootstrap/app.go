package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/assessments"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/insights"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm/azure"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/secrets"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/config"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/server"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/storage/db"
)

var errRequiredDatabase = errors.New("DATABASE_URL is required")

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	AssessmentsRepo    assessments.Repo
	InsightsRepo       insights.Repo
	Gateway            *llm.Gateway
	AssessmentsService *assessments.Service
	InsightsService    *insights.Service
	AssessmentsHandler *assessments.Handler
	InsightsHandler    *insights.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		AssessmentHandler: app.AssessmentsHandler,
		InsightsHandler:   app.InsightsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errRequiredDatabase
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	var assessmentsRepo assessments.Repo
	var insightsRepo insights.Repo

	if app.DB != nil {
		assessmentsRepo = &assessments.PGRepo{DB: app.DB}
		insightsRepo = &insights.PGRepo{DB: app.DB}
	} else {
		assessmentsRepo = assessments.NewMemoryRepo()
		insightsRepo = insights.NewMemoryRepo()
	}

	resolver := secrets.StaticResolver{
		secrets.NameOpenAIEndpoint:   app.Config.AzureOpenAIEndpoint,
		secrets.NameOpenAIAPIKey:     app.Config.AzureOpenAIAPIKey,
		secrets.NameOpenAIDeployment: app.Config.AzureOpenAIDeployment,
		secrets.NameOpenAIAPIVersion: app.Config.AzureOpenAIAPIVersion,
	}
	gateway := llm.NewGateway(resolver, func(endpoint, apiKey, deployment, apiVersion string) (llm.Client, error) {
		return azure.NewClient(endpoint, apiKey, deployment, apiVersion)
	})

	assessmentsSvc := assessments.NewService(assessmentsRepo)
	insightsSvc := &insights.Service{
		Repo:        insightsRepo,
		Engine:      &insights.Engine{LLM: gateway},
		Assessments: assessmentsSvc,
	}

	app.AssessmentsRepo = assessmentsRepo
	app.InsightsRepo = insightsRepo
	app.Gateway = gateway
	app.AssessmentsService = assessmentsSvc
	app.InsightsService = insightsSvc
	app.AssessmentsHandler = assessments.NewHandler(assessmentsSvc)
	app.InsightsHandler = insights.NewHandler(insightsSvc)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

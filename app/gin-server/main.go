package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/elevohq/interview-engine/config"
	"github.com/elevohq/interview-engine/internal/api/handlers"
	"github.com/elevohq/interview-engine/internal/api/middleware"
	"github.com/elevohq/interview-engine/internal/api/routes"
	"github.com/elevohq/interview-engine/internal/cache"
	"github.com/elevohq/interview-engine/internal/interview"
	"github.com/elevohq/interview-engine/internal/logger"
	"github.com/elevohq/interview-engine/internal/providers/llm"
	mongorepo "github.com/elevohq/interview-engine/internal/repositories/mongo"
	pgrepo "github.com/elevohq/interview-engine/internal/repositories/postgres"
	"github.com/elevohq/interview-engine/internal/resume"
	"github.com/elevohq/interview-engine/internal/services"
	"github.com/elevohq/interview-engine/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	eng := config.LoadEngine()
	ctx := context.Background()

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("mongodb init failed")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("mongodb index setup failed")
	}
	log.Info("mongodb connected")

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("postgresql init failed")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("postgresql migration failed")
	}
	log.Info("postgresql connected")

	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("redis init failed")
	}
	log.Info("redis connected")

	gw := buildGateway(ctx, eng, log)
	defer gw.Close()

	var store storage.ObjectStore
	if eng.GCSBucket != "" {
		gcs, err := storage.NewGCSStore(ctx, eng.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("gcs init failed")
		}
		defer gcs.Close()
		store = gcs
	} else {
		log.Warn("GCS_BUCKET not set; resume uploads will not be persisted")
	}

	redisCache := cache.NewRedisCache(config.RedisClient)

	sessionRepo := mongorepo.NewSessionRepo(config.MongoDatabase())
	turnRepo := pgrepo.NewTurnRepo(config.PostgresDB)
	profileRepo := pgrepo.NewProfileRepo(config.PostgresDB)
	resumeFileRepo := pgrepo.NewResumeFileRepo(config.PostgresDB)

	gate := interview.NewQualityGate()
	bank := interview.NewFallbackBank(gate)
	synth := interview.NewSynthesizer(gw, gate, bank, log)
	feedback := interview.NewFeedbackSynthesizer(gw, log)
	extractor := resume.NewExtractor(gw, log)

	interviewSvc := services.NewInterviewService(
		sessionRepo, turnRepo, profileRepo,
		synth, feedback, extractor,
		redisCache, redisCache, log,
		eng.MinQuestions, eng.MaxQuestions,
	)
	resumeSvc := services.NewResumeService(profileRepo, resumeFileRepo, store, extractor, redisCache, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc),
		Resume:    handlers.NewResumeHandler(resumeSvc),
		Health:    handlers.NewHealthHandler(gw),
		WS:        handlers.NewWSHandler(interviewSvc, eng.WSAllowedOrigins),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("starting server")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// buildGateway wires the providers in failover order: Gemini API first, then
// OpenAI, then Vertex. Providers without credentials are skipped.
func buildGateway(ctx context.Context, eng config.Engine, log *logrus.Logger) *llm.Gateway {
	var providers []llm.Provider

	if eng.GeminiAPIKey != "" {
		g, err := llm.NewGemini(ctx, eng.GeminiAPIKey, eng.GeminiModel, log)
		if err != nil {
			log.WithError(err).Warn("gemini init failed; skipping provider")
		} else {
			providers = append(providers, g)
		}
	}

	if eng.OpenAIAPIKey != "" {
		providers = append(providers, llm.NewOpenAI(eng.OpenAIAPIKey, eng.OpenAIModel))
	}

	if eng.VertexProjectID != "" {
		v, err := llm.NewVertexGemini(ctx, eng.VertexProjectID, eng.VertexLocation, eng.VertexModel)
		if err != nil {
			log.WithError(err).Warn("vertex init failed; skipping provider")
		} else {
			providers = append(providers, v)
		}
	}

	if len(providers) == 0 {
		log.Warn("no AI provider configured; running on fallback question bank only")
	}
	return llm.NewGateway(log, eng.AttemptTimeout, providers...)
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/agent"
	"github.com/odlab/odflow-backend/internal/config"
	"github.com/odlab/odflow-backend/internal/database"
	"github.com/odlab/odflow-backend/internal/handler"
	"github.com/odlab/odflow-backend/internal/middleware"
	"github.com/odlab/odflow-backend/internal/repository"
	"github.com/odlab/odflow-backend/internal/service"
	"github.com/odlab/odflow-backend/internal/session"
)

// SetupRouter wires repositories, services and handlers onto the engine
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	db := database.GetDB()
	nodeRepo := repository.NewNodeRepository(db, cfg.TablePlaces)
	flowRepo := repository.NewFlowRepository(db, cfg.TableDyna, cfg.TablePlaces)
	relationRepo := repository.NewRelationRepository(db, cfg.TableRelations)

	odService := service.NewODService(flowRepo, nodeRepo)
	relationsService := service.NewRelationsService(relationRepo, nodeRepo)
	analysisService := service.NewAnalysisService(flowRepo)
	geoService := service.NewGeoService(nodeRepo)
	predictService := service.NewPredictService(flowRepo, nodeRepo, cfg.NoiseRatio)

	sessions := session.NewStore(cfg.SessionTTL)
	chatAgent := agent.New(cfg.OpenAIKey, cfg.OpenAIModel, sessions,
		agent.BuildTools(geoService, analysisService, odService))

	odHandler := handler.NewODHandler(odService)
	relationsHandler := handler.NewRelationsHandler(relationsService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	geoHandler := handler.NewGeoHandler(geoService)
	metricsHandler := handler.NewMetricsHandler()
	predictHandler := handler.NewPredictHandler(predictService)
	agentHandler := handler.NewAgentHandler(chatAgent)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "OD Flow Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		od := api.Group("/od")
		{
			od.GET("", odHandler.GetTensor)
			od.GET("/pair", odHandler.GetPairSeries)
		}

		api.GET("/relations/matrix", relationsHandler.GetMatrix)

		analyze := api.Group("/analyze")
		{
			analyze.POST("/province-flow", analysisHandler.ProvinceFlow)
			analyze.POST("/city-flow", analysisHandler.CityFlow)
			analyze.POST("/province-corridor", analysisHandler.ProvinceCorridor)
			analyze.POST("/city-corridor", analysisHandler.CityCorridor)
		}

		api.POST("/growth", metricsHandler.Growth)
		api.POST("/metrics", metricsHandler.Metrics)

		api.GET("/geo-id", geoHandler.ResolveName)
		api.GET("/geo/distance", geoHandler.Distance)

		predict := api.Group("/predict")
		{
			predict.GET("", predictHandler.GetTensor)
			predict.GET("/pair", predictHandler.GetPairSeries)
			predict.POST("/extrapolate", predictHandler.Extrapolate)
		}

		// Every chat turn fans out to a paid model, so keep a lid on it
		api.POST("/agent/chat", middleware.RateLimit(10, time.Minute), agentHandler.Chat)
	}

	return r
}

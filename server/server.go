package server

import (
	"geo-server/auth"
	"geo-server/confs"
	"geo-server/db"
	"geo-server/handlers"
	httpHandler "geo-server/handlers/http"
	"geo-server/repositories"
	"geo-server/usecases"
	"geo-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app    *gin.Engine
	db     db.Database
	tokens *auth.TokenManager
}

func NewServer(database db.Database, tokens *auth.TokenManager) *Server {
	return &Server{
		app:    gin.Default(),
		db:     database,
		tokens: tokens,
	}
}

func (s *Server) Start() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	structureRepo := repositories.NewStructurePgRepository(s.db)

	// Initialize use cases
	userUseCase := usecases.NewUserUseCase(userRepo, structureRepo)
	structureUseCase := usecases.NewStructureUseCase(structureRepo)

	// Activity feed manager and handler
	manager := ws.NewManager()
	feedHandler := handlers.NewFeedHandler(manager)

	// Initialize handlers
	userHandler := httpHandler.NewUserHandler(userUseCase, manager)
	structureHandler := httpHandler.NewStructureHandler(structureUseCase, manager)
	loginHandler := httpHandler.NewLoginHandler(userUseCase, s.tokens)

	requireAuth := auth.RequireAuth(s.tokens)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		// User routes; reads are public, mutations need a verified identity
		users := api.Group("/users")
		{
			users.GET("", userHandler.GetAllUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:user_id", userHandler.GetUser)
			users.PUT("/:user_id", requireAuth, userHandler.UpdateUser)
			users.DELETE("/:user_id", requireAuth, userHandler.DeleteUser) // self only
			users.GET("/:user_id/structures", userHandler.GetUserStructures)
			users.GET("/:user_id/favorites", userHandler.GetUserFavorites)
			users.POST("/:user_id/favorites", requireAuth, userHandler.AddFavorite)
			users.DELETE("/:user_id/favorites/:favorite_id", requireAuth, userHandler.RemoveFavorite) // self only
		}

		// Structure routes
		structures := api.Group("/structures")
		{
			structures.GET("", structureHandler.GetAllStructures)
			structures.GET("/:id", structureHandler.GetStructure)
			structures.POST("", requireAuth, structureHandler.CreateStructure)
		}

		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", loginHandler.Login)
		}

		// Activity feed stats
		api.GET("/feed/stats", feedHandler.GetFeedStats)
	}

	s.app.GET("/ws", feedHandler.HandleFeed)

	if err := s.app.Run(confs.ServerAddress()); err != nil {
		panic(err)
	}
}

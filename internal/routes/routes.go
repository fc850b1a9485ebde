package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"finchat/internal/chat"
	"finchat/internal/controllers"
)

// SetupRouter initializes controllers and API routes
func SetupRouter(db *gorm.DB, store *chat.Store, advisor *chat.Advisor) *gin.Engine {
	chatController := controllers.ChatController{Store: store, Advisor: advisor}
	productController := controllers.ProductController{DB: db}

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	api := router.Group("/api/v1")
	{
		// POST /api/v1/chat
		// One conversation turn; pass the returned session_id back in.
		api.POST("/chat", chatController.PostMessage)

		// GET /api/v1/products?category=deposit|savings&limit=N
		api.GET("/products", productController.GetProducts)
	}

	return router
}

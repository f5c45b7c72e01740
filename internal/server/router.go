package server

import (
	"sealed-auction/internal/auction"
	handler "sealed-auction/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(api auction.API) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(api)

	router.GET("/healthz", HealthHandler)

	users := router.Group("/users")
	{
		users.POST("", auctionHandler.RegisterUserHandler)
	}

	items := router.Group("/items")
	{
		items.POST("", auctionHandler.CreateItemHandler)
		items.GET("", auctionHandler.ListItemsHandler)
		items.GET("/:name", auctionHandler.GetItemHandler)
		items.POST("/:name/bids", auctionHandler.PlaceBidHandler)
		items.GET("/:name/bids", auctionHandler.GetBidsByItemHandler)
	}

	chat := router.Group("/chat")
	{
		chat.POST("/messages", auctionHandler.ChatMessageHandler)
	}

	return router
}

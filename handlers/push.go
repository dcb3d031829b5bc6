package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gymhub/middleware"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
)

func GetVapidPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"publicKey": deps.Push.PublicKey(),
	})
}

func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := middleware.ActorFrom(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub := webpush.Subscription{
		Endpoint: req.Endpoint,
		Keys: webpush.Keys{
			P256dh: req.Keys.P256dh,
			Auth:   req.Keys.Auth,
		},
	}

	// Upsert semantics: one subscription per member, latest wins.
	if err := deps.Push.Subscriptions().Save(ctx, actor.UserID, sub); err != nil {
		log.Printf("Failed to save subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Push subscription saved successfully",
		"userId":  actor.UserID.Hex(),
	})
}

func UnsubscribePush(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := deps.Push.Subscriptions().Clear(ctx, actor.UserID); err != nil {
		log.Printf("Failed to remove subscription: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription removed"})
}

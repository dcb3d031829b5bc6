package handlers

import (
	"context"
	"net/http"
	"time"

	"gymhub/database"
	"gymhub/middleware"
	"gymhub/models"
	"gymhub/notify"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetMyNotifications(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Notifications.Find(ctx,
		bson.M{"userId": actor.UserID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func MarkNotificationsRead(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Notifications.UpdateMany(ctx,
		bson.M{"userId": actor.UserID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications marked read",
		"updated": result.ModifiedCount,
	})
}

type BroadcastRequest struct {
	Title      string   `json:"title" binding:"required"`
	Body       string   `json:"body" binding:"required"`
	Recipients []string `json:"recipients"` // empty = everyone
}

// AdminBroadcast sends an announcement to all members or an explicit
// id list. The admin is not a member, so there is nobody to exclude.
func AdminBroadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule := notify.RuleAll()
	if len(req.Recipients) > 0 {
		ids := make([]primitive.ObjectID, 0, len(req.Recipients))
		for _, hex := range req.Recipients {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient ID: " + hex})
				return
			}
			ids = append(ids, id)
		}
		rule = notify.RuleMembers(ids...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	delivered, err := deps.Notifier.Broadcast(ctx, rule, nil, notify.Event{
		Type:  models.NotificationBroadcast,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Broadcast failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Broadcast sent",
		"delivered": delivered,
	})
}

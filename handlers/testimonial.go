package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gymhub/database"
	"gymhub/middleware"
	"gymhub/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TestimonialRequest struct {
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

func CreateTestimonial(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	var req TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	testimonial := models.Testimonial{
		ID:        primitive.NewObjectID(),
		UserID:    actor.UserID,
		Text:      req.Text,
		Rating:    req.Rating,
		CreatedAt: time.Now(),
	}

	if _, err := database.Testimonials.InsertOne(ctx, testimonial); err != nil {
		log.Printf("CreateTestimonial error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create testimonial"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Testimonial submitted for review",
		"testimonial": testimonial,
	})
}

// ListApprovedTestimonials is the public endpoint for the landing page.
func ListApprovedTestimonials(c *gin.Context) {
	listTestimonials(c, bson.M{"approved": true})
}

// ListAllTestimonials is the admin moderation view.
func ListAllTestimonials(c *gin.Context) {
	listTestimonials(c, bson.M{})
}

func listTestimonials(c *gin.Context, filter bson.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Testimonials.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch testimonials"})
		return
	}
	defer cursor.Close(ctx)

	var testimonials []models.Testimonial
	if err := cursor.All(ctx, &testimonials); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode testimonials"})
		return
	}

	c.JSON(http.StatusOK, testimonials)
}

func ApproveTestimonial(c *gin.Context) {
	testimonialID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid testimonial ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Testimonials.UpdateOne(ctx,
		bson.M{"_id": testimonialID},
		bson.M{"$set": bson.M{"approved": true}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve testimonial"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Testimonial not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Testimonial approved"})
}

func DeleteTestimonial(c *gin.Context) {
	testimonialID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid testimonial ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Testimonials.DeleteOne(ctx, bson.M{"_id": testimonialID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete testimonial"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Testimonial not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted"})
}

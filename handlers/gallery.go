package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gymhub/database"
	"gymhub/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ListGallery(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Gallery.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gallery"})
		return
	}
	defer cursor.Close(ctx)

	var items []models.GalleryItem
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode gallery"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func UploadGalleryItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	file, _, err := c.Request.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No media file provided"})
		return
	}
	defer file.Close()

	uploaded, err := deps.Media.Upload(ctx, file, "gymhub/gallery")
	if err != nil {
		log.Printf("gallery upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload media"})
		return
	}

	item := models.GalleryItem{
		ID:        primitive.NewObjectID(),
		Title:     c.PostForm("title"),
		Media:     *uploaded,
		CreatedAt: time.Now(),
	}

	if _, err := database.Gallery.InsertOne(ctx, item); err != nil {
		log.Printf("UploadGalleryItem insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save gallery item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Gallery item uploaded", "item": item})
}

func DeleteGalleryItem(c *gin.Context) {
	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gallery item ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.GalleryItem
	err = database.Gallery.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gallery item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gallery item"})
		return
	}

	if err := deps.Ledger.TrackMedia(ctx, &item.Media, time.Now()); err != nil {
		log.Printf("tracking media for deleted gallery item %s failed: %v", itemID.Hex(), err)
	}

	if _, err := database.Gallery.DeleteOne(ctx, bson.M{"_id": itemID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete gallery item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gallery item deleted"})
}

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
)

func ListTrainers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Trainers.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trainers"})
		return
	}
	defer cursor.Close(ctx)

	var trainers []models.Trainer
	if err := cursor.All(ctx, &trainers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// CreateTrainer takes multipart form data with an optional photo.
func CreateTrainer(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trainer := models.Trainer{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Specialty: c.PostForm("specialty"),
		Bio:       c.PostForm("bio"),
		CreatedAt: time.Now(),
	}

	photoFile, _, err := c.Request.FormFile("photo")
	if err == nil {
		defer photoFile.Close()

		uploaded, err := deps.Media.Upload(ctx, photoFile, "gymhub/trainers")
		if err != nil {
			log.Printf("trainer photo upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
			return
		}
		trainer.Photo = uploaded
	}

	if _, err := database.Trainers.InsertOne(ctx, trainer); err != nil {
		log.Printf("CreateTrainer error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trainer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Trainer created", "trainer": trainer})
}

func UpdateTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	update := bson.M{}
	for field, value := range map[string]string{
		"name":      c.PostForm("name"),
		"specialty": c.PostForm("specialty"),
		"bio":       c.PostForm("bio"),
	} {
		if value != "" {
			update[field] = value
		}
	}

	photoFile, _, err := c.Request.FormFile("photo")
	if err == nil {
		defer photoFile.Close()

		uploaded, err := deps.Media.Upload(ctx, photoFile, "gymhub/trainers")
		if err != nil {
			log.Printf("trainer photo upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
			return
		}

		var current models.Trainer
		if err := database.Trainers.FindOne(ctx, bson.M{"_id": trainerID}).Decode(&current); err == nil {
			if err := deps.Ledger.TrackMedia(ctx, current.Photo, time.Now()); err != nil {
				log.Printf("tracking replaced trainer photo failed: %v", err)
			}
		}
		update["photo"] = uploaded
	}

	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	result, err := database.Trainers.UpdateOne(ctx, bson.M{"_id": trainerID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update trainer"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trainer updated"})
}

func DeleteTrainer(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var trainer models.Trainer
	err = database.Trainers.FindOne(ctx, bson.M{"_id": trainerID}).Decode(&trainer)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trainer"})
		return
	}

	if err := deps.Ledger.TrackMedia(ctx, trainer.Photo, time.Now()); err != nil {
		log.Printf("tracking photo for deleted trainer %s failed: %v", trainerID.Hex(), err)
	}

	if _, err := database.Trainers.DeleteOne(ctx, bson.M{"_id": trainerID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trainer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trainer deleted"})
}

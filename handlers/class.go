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

type ClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TrainerID   string `json:"trainerId" binding:"required"`
	Schedule    string `json:"schedule" binding:"required"`
	Capacity    int    `json:"capacity"`
}

func ListClasses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "trainers"},
			{Key: "localField", Value: "trainerId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "trainer"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$trainer"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := database.Classes.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("ListClasses aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}
	defer cursor.Close(ctx)

	var classes []struct {
		models.Class `bson:",inline"`
		Trainer      *models.Trainer `bson:"trainer"`
	}
	if err := cursor.All(ctx, &classes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode classes"})
		return
	}

	response := make([]models.Class, len(classes))
	for i, cl := range classes {
		class := cl.Class
		class.Trainer = cl.Trainer
		response[i] = class
	}

	c.JSON(http.StatusOK, response)
}

func CreateClass(c *gin.Context) {
	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Trainers.FindOne(ctx, bson.M{"_id": trainerID}).Err(); err == mongo.ErrNoDocuments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trainer not found"})
		return
	}

	class := models.Class{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   trainerID,
		Schedule:    req.Schedule,
		Capacity:    req.Capacity,
		CreatedAt:   time.Now(),
	}

	if _, err := database.Classes.InsertOne(ctx, class); err != nil {
		log.Printf("CreateClass error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Class created", "class": class})
}

func UpdateClass(c *gin.Context) {
	classID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	var req ClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trainerID, err := primitive.ObjectIDFromHex(req.TrainerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trainer ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Classes.UpdateOne(ctx,
		bson.M{"_id": classID},
		bson.M{"$set": bson.M{
			"name":        req.Name,
			"description": req.Description,
			"trainerId":   trainerID,
			"schedule":    req.Schedule,
			"capacity":    req.Capacity,
		}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class updated"})
}

func DeleteClass(c *gin.Context) {
	classID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Classes.DeleteOne(ctx, bson.M{"_id": classID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class deleted"})
}

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
	"go.mongodb.org/mongo-driver/mongo"
)

func GetMyProfile(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": actor.UserID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMyProfile accepts multipart form data so the avatar can ride
// along. A replaced avatar's old asset goes through the expiry ledger
// rather than being deleted inline.
func UpdateMyProfile(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	update := bson.M{}
	for field, value := range map[string]string{
		"name":  c.PostForm("name"),
		"phone": c.PostForm("phone"),
		"goal":  c.PostForm("goal"),
	} {
		if value != "" {
			update[field] = value
		}
	}

	avatarFile, _, err := c.Request.FormFile("avatar")
	if err == nil {
		defer avatarFile.Close()

		uploaded, err := deps.Media.Upload(ctx, avatarFile, "gymhub/avatars")
		if err != nil {
			log.Printf("avatar upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload avatar"})
			return
		}

		var current models.User
		if err := database.Users.FindOne(ctx, bson.M{"_id": actor.UserID}).Decode(&current); err == nil && current.Avatar != nil {
			if err := deps.Ledger.TrackMedia(ctx, current.Avatar, time.Now()); err != nil {
				log.Printf("tracking replaced avatar %s failed: %v", current.Avatar.RemoteID, err)
			}
		}

		update["avatar"] = uploaded
	}

	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	result, err := database.Users.UpdateOne(ctx, bson.M{"_id": actor.UserID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func ListMembers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode members"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func setMemberFlag(c *gin.Context, field string, value bool, message string) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": memberID},
		bson.M{"$set": bson.M{field: value}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func VerifyMember(c *gin.Context)    { setMemberFlag(c, "verified", true, "Member verified") }
func SuspendMember(c *gin.Context)   { setMemberFlag(c, "suspended", true, "Member suspended") }
func UnsuspendMember(c *gin.Context) { setMemberFlag(c, "suspended", false, "Member unsuspended") }

// DeleteMember removes the member and their content. All of the
// member's remote media (avatar, post attachments) is registered with
// the expiry ledger; the hourly sweep does the actual provider
// deletes.
func DeleteMember(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": memberID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch member"})
		return
	}

	now := time.Now()
	if err := deps.Ledger.TrackMedia(ctx, user.Avatar, now); err != nil {
		log.Printf("tracking avatar for deleted member %s failed: %v", memberID.Hex(), err)
	}

	cursor, err := database.Posts.Find(ctx, bson.M{"userId": memberID})
	if err == nil {
		var posts []models.Post
		if err := cursor.All(ctx, &posts); err == nil {
			for _, p := range posts {
				if err := deps.Ledger.TrackMedia(ctx, p.Media, now); err != nil {
					log.Printf("tracking media for post %s failed: %v", p.ID.Hex(), err)
				}
			}
		}
	}

	if _, err := database.Posts.DeleteMany(ctx, bson.M{"userId": memberID}); err != nil {
		log.Printf("deleting posts for member %s failed: %v", memberID.Hex(), err)
	}
	if _, err := database.Comments.DeleteMany(ctx, bson.M{"userId": memberID}); err != nil {
		log.Printf("deleting comments for member %s failed: %v", memberID.Hex(), err)
	}
	if _, err := database.Notifications.DeleteMany(ctx, bson.M{"userId": memberID}); err != nil {
		log.Printf("deleting notifications for member %s failed: %v", memberID.Hex(), err)
	}

	if _, err := database.Users.DeleteOne(ctx, bson.M{"_id": memberID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

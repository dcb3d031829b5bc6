package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gymhub/database"
	"gymhub/lifecycle"
	"gymhub/middleware"
	"gymhub/models"
	"gymhub/notify"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatePost accepts multipart form data: a content field plus an
// optional image/video. Posts live 24 hours; the expiry is stamped
// here, once, and the media's ledger entry is registered in the same
// breath so the asset stays cleanable after the TTL monitor silently
// drops the document.
func CreatePost(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	content := c.PostForm("content")
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var uploaded *models.Media
	mediaFile, _, err := c.Request.FormFile("media")
	if err == nil {
		defer mediaFile.Close()

		uploaded, err = deps.Media.Upload(ctx, mediaFile, "gymhub/posts")
		if err != nil {
			log.Printf("post media upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload media"})
			return
		}
	}

	now := time.Now()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    actor.UserID,
		Content:   content,
		Media:     uploaded,
		Likes:     []primitive.ObjectID{},
		CreatedAt: now,
		ExpiresAt: lifecycle.Stamp(now, lifecycle.PostTTL),
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Register the media for cleanup now, due when the post expires.
	// A tracking failure is logged, not surfaced: the post exists
	// either way, and the expired-post sweep is the backstop.
	if err := deps.Ledger.TrackMedia(ctx, post.Media, post.ExpiresAt); err != nil {
		log.Printf("tracking media for post %s failed: %v", post.ID.Hex(), err)
	}

	// Fan-out and engagement tracking run off the request path.
	authorID := actor.UserID
	postID := post.ID
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := deps.Notifier.Broadcast(bg, notify.RuleActiveMembers(), &authorID, notify.Event{
			Sender:    &authorID,
			Type:      models.NotificationNewPost,
			Title:     "New post on GymHub",
			Body:      "A fellow member just shared a workout update",
			RelatedID: &postID,
		}); err != nil {
			log.Printf("new-post fan-out for %s failed: %v", postID.Hex(), err)
		}

		if err := deps.Motivation.RecordEngagement(bg, authorID, now); err != nil {
			log.Printf("engagement record for user %s failed: %v", authorID.Hex(), err)
		}
	}()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetFeed returns unexpired posts, newest first, with authors
// attached. The expiresAt filter matters: the TTL monitor only runs
// periodically, so recently expired documents can still be present.
func GetFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "expiresAt", Value: bson.D{{Key: "$gt", Value: time.Now()}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "userId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetFeed aggregate error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cursor.Close(ctx)

	var posts []struct {
		models.Post `bson:",inline"`
		User        *models.User `bson:"user"`
	}
	if err := cursor.All(ctx, &posts); err != nil {
		log.Printf("GetFeed decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	response := make([]models.Post, len(posts))
	for i, p := range posts {
		post := p.Post
		post.User = p.User
		response[i] = post
	}

	c.JSON(http.StatusOK, response)
}

// DeletePost removes a post on behalf of its author or an admin. The
// media asset is handed to the ledger as due-now; the hourly sweep
// does the provider delete.
func DeletePost(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if !actor.Admin && post.UserID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your post"})
		return
	}

	if err := deps.Ledger.TrackMedia(ctx, post.Media, time.Now()); err != nil {
		log.Printf("tracking media for deleted post %s failed: %v", postID.Hex(), err)
	}

	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if _, err := database.Comments.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		log.Printf("deleting comments for post %s failed: %v", postID.Hex(), err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func LikePost(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"likes": actor.UserID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		return
	}

	// The author hears about it unless they liked their own post.
	if post.UserID != actor.UserID {
		likerID := actor.UserID
		owner := post.UserID
		pid := post.ID
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := deps.Notifier.NotifyOne(bg, owner, notify.Event{
				Sender:    &likerID,
				Type:      models.NotificationLike,
				Title:     "New like",
				Body:      "Someone liked your post",
				RelatedID: &pid,
			}); err != nil {
				log.Printf("like notification for post %s failed: %v", pid.Hex(), err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post liked", "likes": len(post.Likes)})
}

func UnlikePost(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": actor.UserID}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike post"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unliked"})
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func CommentPost(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		UserID:    actor.UserID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Printf("CommentPost insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	if post.UserID != actor.UserID {
		commenterID := actor.UserID
		owner := post.UserID
		pid := post.ID
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := deps.Notifier.NotifyOne(bg, owner, notify.Event{
				Sender:    &commenterID,
				Type:      models.NotificationComment,
				Title:     "New comment",
				Body:      "Someone commented on your post",
				RelatedID: &pid,
			}); err != nil {
				log.Printf("comment notification for post %s failed: %v", pid.Hex(), err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "comment": comment})
}

func GetComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

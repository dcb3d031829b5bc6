package models

// MediaKind mirrors Cloudinary's resource types.
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// Media is a reference to an asset hosted on the remote media store.
// RemoteID is the provider's public id and is what cleanup keys on.
type Media struct {
	URL      string `bson:"url" json:"url"`
	RemoteID string `bson:"remoteId" json:"remoteId"`
	Kind     string `bson:"kind" json:"kind"` // image, video
}

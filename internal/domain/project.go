package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a published showcase entry. Every project has at least one owner;
// the creator is always among them.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	RepoID      string               `bson:"repoId" json:"repoId"`
	URL         string               `bson:"url" json:"url"`
	Description string               `bson:"description" json:"description"`
	Domain      string               `bson:"domain" json:"domain"`
	TechStacks  []string             `bson:"techStacks" json:"techStacks"`
	Stars       int                  `bson:"stars" json:"stars"`
	OwnerIDs    []primitive.ObjectID `bson:"owners" json:"-"`
	Videos      []string             `bson:"videos" json:"videos"`
	Images      []string             `bson:"images" json:"images"`
	Thumbnail   string               `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ProjectDetail is a project with its owner references resolved to user
// profiles (safe fields only — User strips password/refreshToken itself).
type ProjectDetail struct {
	*Project
	Owners []*User `json:"owners"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the credential store record. Password hash and refresh token are
// never serialized to JSON.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	GithubID     string               `bson:"githubId" json:"githubId"`
	PasswordHash string               `bson:"password" json:"-"`
	ProfilePic   string               `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	CoverImg     string               `bson:"coverImg,omitempty" json:"coverImg,omitempty"`
	TechStack    []string             `bson:"techStack" json:"techStack"`
	Domains      []string             `bson:"domains" json:"domains"`
	Projects     []primitive.ObjectID `bson:"projects" json:"projects"`
	WatchList    []primitive.ObjectID `bson:"watchList" json:"watchList"`
	RefreshToken string               `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate describes a partial profile mutation. Nil slices and empty
// strings mean "leave unchanged".
type ProfileUpdate struct {
	TechStack  []string
	Domains    []string
	ProfilePic string
	CoverImg   string
}

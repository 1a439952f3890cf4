package domain

import "time"

// PendingRegistration stages a user record between the register and verify-otp
// steps. It is keyed by a server-issued opaque ID so the client never carries
// the payload itself. The record is deleted on successful verification or
// reaped by a TTL index once ExpiresAt passes; no User exists until then.
type PendingRegistration struct {
	ID           string    `bson:"_id" json:"registrationId"`
	Username     string    `bson:"username" json:"-"`
	Email        string    `bson:"email" json:"email"`
	GithubID     string    `bson:"githubId" json:"-"`
	PasswordHash string    `bson:"password" json:"-"`
	ProfilePic   string    `bson:"profilePic,omitempty" json:"-"`
	CoverImg     string    `bson:"coverImg,omitempty" json:"-"`
	OTPHash      string    `bson:"otpHash" json:"-"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"-"`
}

// Expired reports whether the staged registration is past its TTL. The TTL
// index reaps expired documents eventually; this check makes expiry exact.
func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

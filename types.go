package cardnews

import "time"

// Account is an Instagram business account the tool can publish to,
// stored in SQLite together with its page access token.
type Account struct {
	Name        string
	IGUserID    string
	AccessToken string
	TokenExpiry time.Time // zero when unknown
}

// PublishRecord is one publish attempt, kept as history so the
// dashboard can show what went out and when.
type PublishRecord struct {
	ID          int64
	Account     string
	Caption     string
	Status      string // "published", "scheduled", "failed"
	MediaID     string
	ContainerID string
	ImageCount  int
	ScheduledAt time.Time // zero for immediate posts
	CreatedAt   time.Time
}

// Background is an uploaded photo available to the content slides,
// resized and stored under the static dir.
type Background struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

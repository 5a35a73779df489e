package domain

import (
	"time"
)

// Export describes a JSON snapshot of a user's workout sessions written to
// object storage. The file itself lives in the bucket; URL is a presigned
// download link valid until ExpiresAt.
type Export struct {
	ObjectKey    string    `json:"objectKey"`
	URL          string    `json:"url"`
	SessionCount int       `json:"sessionCount"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

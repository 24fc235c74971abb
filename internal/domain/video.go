package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoSource records how a video got attached to an exercise.
type VideoSource string

const (
	VideoSourceSearch VideoSource = "search" // Found through the video search API
	VideoSourceManual VideoSource = "manual" // URL entered by the user
	VideoSourceUpload VideoSource = "upload" // Uploaded by the user to object storage
)

var ErrNoVideos = errors.New("exercise has no videos")

// Video is a demonstration video attached to an Exercise.
type Video struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	URL        string             `bson:"url" json:"url"`
	IsCurrent  bool               `bson:"isCurrent" json:"isCurrent"` // The one currently displayed
	Source     VideoSource        `bson:"source" json:"source"`
	ObjectKey  string             `bson:"objectKey,omitempty" json:"-"` // Storage key, uploads only
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// CurrentIndex returns the index of the first current video, or -1.
func CurrentIndex(videos []Video) int {
	for i := range videos {
		if videos[i].IsCurrent {
			return i
		}
	}
	return -1
}

// NormalizeCurrent returns a copy of videos where exactly one video is current:
// the first one already marked, or the first video when none is marked.
// An empty list stays empty.
func NormalizeCurrent(videos []Video) []Video {
	if len(videos) == 0 {
		return []Video{}
	}
	out := make([]Video, len(videos))
	copy(out, videos)

	current := CurrentIndex(out)
	if current < 0 {
		current = 0
	}
	for i := range out {
		out[i].IsCurrent = i == current
	}
	return out
}

// SwitchCurrent moves the current flag by step positions (1 = next,
// -1 = previous), wrapping around. When nothing is current the first video
// becomes current.
func SwitchCurrent(videos []Video, step int) ([]Video, error) {
	n := len(videos)
	if n == 0 {
		return nil, ErrNoVideos
	}
	out := make([]Video, n)
	copy(out, videos)

	target := 0
	if idx := CurrentIndex(out); idx >= 0 {
		target = ((idx+step)%n + n) % n
	}
	for i := range out {
		out[i].IsCurrent = i == target
	}
	return out, nil
}

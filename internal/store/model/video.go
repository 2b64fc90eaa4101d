package model

import (
	"encoding/json"
	"time"
)

// Video is one produced artifact indexed in the catalog. The media file itself
// lives on the local filesystem; Path and Thumbnail are file names relative to
// the output and thumbnail directories.
type Video struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Path      string `gorm:"uniqueIndex;not null"`
	Thumbnail string
	Niche     string
	Uploaded  bool `gorm:"not null;default:false"`
	VideoID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type VideoList []Video

func (v Video) String() string {
	val, _ := json.Marshal(v)
	return string(val)
}

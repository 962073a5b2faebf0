package models

import "time"

// PublicationState is the pair of fields governing whether non-owner
// viewers may see an entity. It is embedded by Category, Location and Post.
//
// IsPublished carries no column default on purpose: GORM omits zero-value
// fields that have a default tag from the INSERT, which would silently
// store a draft (false) as published (true). Every create path sets the
// field explicitly instead.
type PublicationState struct {
	IsPublished bool      `gorm:"column:is_published;not null" json:"is_published"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

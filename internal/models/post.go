package models

import "time"

// Post is a publication authored by a user. PubDate may be set in the
// future for scheduled publishing; until it passes, only the author sees
// the post. Category and Location are optional and survive the post
// (deleting either nulls the reference rather than deleting the post).
type Post struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:256;not null" json:"title"`
	Text             string    `gorm:"type:text;not null" json:"text"`
	PubDate          time.Time `gorm:"not null;index" json:"pub_date"`
	ImageURL         string    `json:"image_url,omitempty"`
	PublicationState `gorm:"embedded"`
	AuthorID         uint      `gorm:"not null;index" json:"author_id"`
	Author           User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CategoryID       *uint     `gorm:"index" json:"category_id,omitempty"`
	Category         *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	LocationID       *uint     `json:"location_id,omitempty"`
	Location         *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	// CommentCount is not persisted; computed at query time
	CommentCount int64     `gorm:"->;-:migration" json:"comment_count"`
	UpdatedAt    time.Time `json:"updated_at"`
	Comments     []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

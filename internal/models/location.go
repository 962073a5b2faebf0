package models

// Location is a geographic tag a post can carry.
type Location struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"size:256;not null" json:"name"`
	PublicationState `gorm:"embedded"`
}

package models

// Category is a thematic section posts are filed under. The slug is the
// stable URL identifier; it is unique and should not change once linked.
type Category struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Title            string `gorm:"size:256;not null" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	Slug             string `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	PublicationState `gorm:"embedded"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}

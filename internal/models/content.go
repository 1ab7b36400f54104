package models

import "time"

// Review is a customer testimonial.
type Review struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Designation string    `gorm:"type:varchar(255)" json:"designation"`
	Rating      int       `gorm:"type:tinyint;not null;default:5" json:"rating"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Image       []byte    `gorm:"type:longblob" json:"-"`
	CreatedAt   time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "review"
}

// Blog is an article. Content holds HTML.
type Blog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Slug      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Author    string    `gorm:"type:varchar(255)" json:"author"`
	Content   string    `gorm:"type:longtext" json:"content"`
	Cover     []byte    `gorm:"type:longblob" json:"-"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Blog) TableName() string {
	return "blogs"
}

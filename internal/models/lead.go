package models

import "time"

// Visit is a prospective buyer's booking request.
// PropertyName is copied from the listing and is not a foreign key.
type Visit struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone        string    `gorm:"type:varchar(50);not null" json:"phone"`
	Date         string    `gorm:"type:varchar(20)" json:"date"`
	Time         string    `gorm:"type:varchar(20)" json:"time"`
	Message      string    `gorm:"type:text" json:"message"`
	PropertyName string    `gorm:"type:varchar(255)" json:"property_name"`
	CreatedAt    time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name
func (Visit) TableName() string {
	return "visit"
}

// Contact is a message sent from the contact form.
type Contact struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Subject   string    `gorm:"type:varchar(255)" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name
func (Contact) TableName() string {
	return "contact"
}

// Newsletter is a newsletter subscription.
type Newsletter struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Newsletter) TableName() string {
	return "newsletter"
}

package models

// Agent is the sales contact shown on a property page.
type Agent struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Phone string `gorm:"column:phone_number;type:varchar(50)" json:"phone_number"`
	Image []byte `gorm:"type:longblob" json:"-"`
}

// TableName specifies the table name
func (Agent) TableName() string {
	return "agent"
}

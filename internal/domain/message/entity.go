package message

import "time"

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// Message is a contact-form submission from the public site.
type Message struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Company   string    `json:"company,omitempty" gorm:"type:varchar(255)"`
	Subject   string    `json:"subject,omitempty" gorm:"type:varchar(255)"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	Status    Status    `json:"status" gorm:"type:varchar(20);not null;index"`
	IPAddress string    `json:"-" gorm:"type:varchar(64)"`
	UserAgent string    `json:"-" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Message) TableName() string {
	return "messages"
}

func Models() []any {
	return []any{&Message{}}
}

package models

import (
	"time"
)

// Attachment is a file (receipt photo, invoice scan) linked to a transaction.
// The file itself lives on disk under the upload base dir; StorePath is the
// public path it is served from.
type Attachment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`
	TransactionID uint      `gorm:"index;not null" json:"-"`
	FileName      string    `gorm:"size:255;not null" json:"filename"`
	StorePath     string    `gorm:"column:store_path;size:512" json:"url"`
	ContentType   string    `gorm:"size:128" json:"contentType"`
	Size          int64     `json:"size"`
}

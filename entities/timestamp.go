package entities

import "time"

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp with time zone;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp with time zone;autoUpdateTime" json:"updated_at"`
}

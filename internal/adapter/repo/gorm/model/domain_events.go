package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameDomainEvent = "domain_events"

// DomainEvent mapped from table <domain_events>
type DomainEvent struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	CharacterID string         `gorm:"column:character_id;not null" json:"character_id"`
	Type        string         `gorm:"column:type;not null" json:"type"`
	OccurredAt  time.Time      `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload"`
}

// TableName DomainEvent's table name
func (*DomainEvent) TableName() string {
	return TableNameDomainEvent
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameCharacter = "characters"

// Character mapped from table <characters>
type Character struct {
	ID                 string         `gorm:"column:id;primaryKey" json:"id"`
	OwnerID            string         `gorm:"column:owner_id;not null" json:"owner_id"`
	Name               string         `gorm:"column:name;not null" json:"name"`
	CombatLevel        int32          `gorm:"column:combat_level;not null" json:"combat_level"`
	Hitpoints          int32          `gorm:"column:hitpoints;not null" json:"hitpoints"`
	MaxHitpoints       int32          `gorm:"column:max_hitpoints;not null" json:"max_hitpoints"`
	Prayer             int32          `gorm:"column:prayer;not null" json:"prayer"`
	MaxPrayer          int32          `gorm:"column:max_prayer;not null" json:"max_prayer"`
	Skills             datatypes.JSON `gorm:"column:skills;not null" json:"skills"`
	Bank               datatypes.JSON `gorm:"column:bank;not null" json:"bank"`
	Equipment          datatypes.JSON `gorm:"column:equipment;not null" json:"equipment"`
	LastActionID       string         `gorm:"column:last_action_id;not null" json:"last_action_id"`
	LastActionLocation string         `gorm:"column:last_action_location;not null" json:"last_action_location"`
	LastActionTime     time.Time      `gorm:"column:last_action_time;not null" json:"last_action_time"`
	LastLogin          time.Time      `gorm:"column:last_login;not null" json:"last_login"`
	SlayerTask         datatypes.JSON `gorm:"column:slayer_task" json:"slayer_task"`
	SlayerPoints       int32          `gorm:"column:slayer_points;not null" json:"slayer_points"`
	SlayerTaskStreak   int32          `gorm:"column:slayer_task_streak;not null" json:"slayer_task_streak"`
	Stats              datatypes.JSON `gorm:"column:stats;not null" json:"stats"`
	Version            int64          `gorm:"column:version;not null" json:"version"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName Character's table name
func (*Character) TableName() string {
	return TableNameCharacter
}

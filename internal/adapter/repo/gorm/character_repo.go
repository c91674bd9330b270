package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"idlescape/internal/adapter/repo/gorm/model"
	"idlescape/internal/app/ports"
	"idlescape/internal/domain/game"
	"idlescape/internal/domain/skill"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CharacterRepo struct {
	db *gorm.DB
}

func NewCharacterRepo(db *gorm.DB) CharacterRepo {
	return CharacterRepo{db: db}
}

func (r CharacterRepo) GetByID(ctx context.Context, ownerID, characterID string) (game.Character, error) {
	var m model.Character
	err := getDBFromCtx(ctx, r.db).
		Where("id = ? AND owner_id = ?", characterID, ownerID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Character{}, ports.ErrNotFound
		}
		return game.Character{}, err
	}
	return fromModel(m)
}

// ListByOwner returns the owner's characters, most recently played first.
func (r CharacterRepo) ListByOwner(ctx context.Context, ownerID string) ([]game.Character, error) {
	rows := []model.Character{}
	err := getDBFromCtx(ctx, r.db).
		Where(&model.Character{OwnerID: ownerID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "last_login"}, Desc: true}},
		}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]game.Character, 0, len(rows))
	for _, row := range rows {
		c, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r CharacterRepo) SaveWithVersion(ctx context.Context, c game.Character, expectedVersion int64) error {
	m, err := toModel(c)
	if err != nil {
		return err
	}
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"name":                 m.Name,
		"combat_level":         m.CombatLevel,
		"hitpoints":            m.Hitpoints,
		"max_hitpoints":        m.MaxHitpoints,
		"prayer":               m.Prayer,
		"max_prayer":           m.MaxPrayer,
		"skills":               m.Skills,
		"bank":                 m.Bank,
		"equipment":            m.Equipment,
		"last_action_id":       m.LastActionID,
		"last_action_location": m.LastActionLocation,
		"last_action_time":     m.LastActionTime,
		"last_login":           m.LastLogin,
		"slayer_task":          m.SlayerTask,
		"slayer_points":        m.SlayerPoints,
		"slayer_task_streak":   m.SlayerTaskStreak,
		"stats":                m.Stats,
		"version":              m.Version,
		"updated_at":           m.UpdatedAt,
	}
	res := db.Model(&model.Character{}).
		Where("id = ? AND owner_id = ? AND version = ?", c.ID, c.OwnerID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func toModel(c game.Character) (model.Character, error) {
	skills, err := json.Marshal(c.Skills)
	if err != nil {
		return model.Character{}, fmt.Errorf("encode skills: %w", err)
	}
	bank, err := json.Marshal(c.Bank)
	if err != nil {
		return model.Character{}, fmt.Errorf("encode bank: %w", err)
	}
	equipment, err := json.Marshal(c.Equipment)
	if err != nil {
		return model.Character{}, fmt.Errorf("encode equipment: %w", err)
	}
	stats, err := json.Marshal(c.Stats)
	if err != nil {
		return model.Character{}, fmt.Errorf("encode stats: %w", err)
	}
	var task datatypes.JSON
	if c.CurrentSlayerTask != nil {
		if task, err = json.Marshal(c.CurrentSlayerTask); err != nil {
			return model.Character{}, fmt.Errorf("encode slayer task: %w", err)
		}
	}
	return model.Character{
		ID:                 c.ID,
		OwnerID:            c.OwnerID,
		Name:               c.Name,
		CombatLevel:        int32(c.CombatLevel),
		Hitpoints:          int32(c.Hitpoints),
		MaxHitpoints:       int32(c.MaxHitpoints),
		Prayer:             int32(c.Prayer),
		MaxPrayer:          int32(c.MaxPrayer),
		Skills:             skills,
		Bank:               bank,
		Equipment:          equipment,
		LastActionID:       c.LastActionID,
		LastActionLocation: c.LastActionLocation,
		LastActionTime:     c.LastActionTime,
		LastLogin:          c.LastLogin,
		SlayerTask:         task,
		SlayerPoints:       int32(c.SlayerPoints),
		SlayerTaskStreak:   int32(c.SlayerTaskStreak),
		Stats:              stats,
		Version:            c.Version,
		UpdatedAt:          c.UpdatedAt,
	}, nil
}

func fromModel(m model.Character) (game.Character, error) {
	c := game.Character{
		ID:                 m.ID,
		OwnerID:            m.OwnerID,
		Name:               m.Name,
		CombatLevel:        int(m.CombatLevel),
		Hitpoints:          int(m.Hitpoints),
		MaxHitpoints:       int(m.MaxHitpoints),
		Prayer:             int(m.Prayer),
		MaxPrayer:          int(m.MaxPrayer),
		LastActionID:       m.LastActionID,
		LastActionLocation: m.LastActionLocation,
		LastActionTime:     m.LastActionTime,
		LastLogin:          m.LastLogin,
		SlayerPoints:       int(m.SlayerPoints),
		SlayerTaskStreak:   int(m.SlayerTaskStreak),
		Version:            m.Version,
		UpdatedAt:          m.UpdatedAt,
		Skills:             map[skill.Name]skill.Skill{},
		Equipment:          map[game.EquipmentSlot]game.ItemID{},
	}
	if err := decodeColumn(m.Skills, &c.Skills); err != nil {
		return game.Character{}, fmt.Errorf("decode skills of %s: %w", m.ID, err)
	}
	if err := decodeColumn(m.Bank, &c.Bank); err != nil {
		return game.Character{}, fmt.Errorf("decode bank of %s: %w", m.ID, err)
	}
	if err := decodeColumn(m.Equipment, &c.Equipment); err != nil {
		return game.Character{}, fmt.Errorf("decode equipment of %s: %w", m.ID, err)
	}
	if err := decodeColumn(m.Stats, &c.Stats); err != nil {
		return game.Character{}, fmt.Errorf("decode stats of %s: %w", m.ID, err)
	}
	if len(m.SlayerTask) > 0 && string(m.SlayerTask) != "null" {
		var task game.SlayerTask
		if err := json.Unmarshal(m.SlayerTask, &task); err != nil {
			return game.Character{}, fmt.Errorf("decode slayer task of %s: %w", m.ID, err)
		}
		c.CurrentSlayerTask = &task
	}
	c.Normalize()
	return c, nil
}

func decodeColumn(raw datatypes.JSON, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

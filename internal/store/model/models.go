package model

import (
	"gorm.io/datatypes"
)

// SettingsModel stores one flat string->string JSON object under a namespaced key.
type SettingsModel struct {
	Key           string         `gorm:"column:storage_key;primaryKey"`
	ValuesJSON    datatypes.JSON `gorm:"column:value_json;type:TEXT"`
	CreatedAtUnix int64          `gorm:"column:created_at"`
	UpdatedAtUnix int64          `gorm:"column:updated_at"`
}

func (SettingsModel) TableName() string { return "settings_kv" }

type ChangeAction int

const (
	ChangeActionSet    ChangeAction = 1
	ChangeActionRemove ChangeAction = 2
)

// SettingsChangeModel is one field-level difference written alongside a settings save.
type SettingsChangeModel struct {
	ID            int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Key           string       `gorm:"column:storage_key;index:idx_settings_change_key"`
	Field         string       `gorm:"column:field"`
	Action        ChangeAction `gorm:"column:action"`
	OldValue      *string      `gorm:"column:old_value"`
	NewValue      *string      `gorm:"column:new_value"`
	CreatedAtUnix int64        `gorm:"column:created_at"`
}

func (SettingsChangeModel) TableName() string { return "settings_changes" }

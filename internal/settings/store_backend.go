package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buddyfarm/internal/store"
	"buddyfarm/internal/store/model"
)

// StoreBackend persists settings through a transactional store. Every Save
// also appends one change row per field that differs from the stored value.
type StoreBackend struct {
	st  store.Store
	now func() time.Time
}

var _ Backend = (*StoreBackend)(nil)

func NewStoreBackend(st store.Store) *StoreBackend {
	return &StoreBackend{st: st, now: time.Now}
}

func (b *StoreBackend) Load(ctx context.Context, key string) (Settings, error) {
	if b == nil || b.st == nil {
		return nil, errors.New("settings store not configured")
	}
	uow, err := b.st.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()
	rec, err := uow.Settings().Find(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeRecord(rec)
}

func (b *StoreBackend) Save(ctx context.Context, key string, s Settings) error {
	if b == nil || b.st == nil {
		return errors.New("settings store not configured")
	}
	raw, err := json.Marshal(s.Clone())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	uow, err := b.st.Begin(ctx)
	if err != nil {
		return err
	}
	prevRec, err := uow.Settings().Find(ctx, key)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	prev, err := decodeRecord(prevRec)
	if err != nil {
		// An unreadable row is replaced wholesale.
		prev = Settings{}
	}
	now := b.now().Unix()
	rec := &model.SettingsModel{Key: key, ValuesJSON: raw, CreatedAtUnix: now, UpdatedAtUnix: now}
	if err := uow.Settings().Save(ctx, rec); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Changes().Insert(ctx, diff(key, prev, s, now)); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

// Change is one recorded field-level settings change.
type Change struct {
	Field    string  `json:"field"`
	Removed  bool    `json:"removed"`
	OldValue *string `json:"old_value"`
	NewValue *string `json:"new_value"`
	At       int64   `json:"at"`
}

// History returns up to limit changes for key, newest first.
func (b *StoreBackend) History(ctx context.Context, key string, limit int) ([]Change, error) {
	if b == nil || b.st == nil {
		return nil, errors.New("settings store not configured")
	}
	uow, err := b.st.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()
	rows, err := uow.Changes().ListRecent(ctx, key, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Change, 0, len(rows))
	for _, row := range rows {
		out = append(out, Change{
			Field:    row.Field,
			Removed:  row.Action == model.ChangeActionRemove,
			OldValue: row.OldValue,
			NewValue: row.NewValue,
			At:       row.CreatedAtUnix,
		})
	}
	return out, nil
}

func decodeRecord(rec *model.SettingsModel) (Settings, error) {
	if rec == nil || len(rec.ValuesJSON) == 0 {
		return Settings{}, nil
	}
	var out Settings
	if err := json.Unmarshal(rec.ValuesJSON, &out); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", rec.Key, err)
	}
	if out == nil {
		out = Settings{}
	}
	return out, nil
}

func diff(key string, prev, next Settings, at int64) []model.SettingsChangeModel {
	var changes []model.SettingsChangeModel
	for _, field := range next.Keys() {
		newVal := next[field]
		oldVal, had := prev[field]
		if had && oldVal == newVal {
			continue
		}
		change := model.SettingsChangeModel{
			Key:           key,
			Field:         field,
			Action:        model.ChangeActionSet,
			NewValue:      &newVal,
			CreatedAtUnix: at,
		}
		if had {
			change.OldValue = &oldVal
		}
		changes = append(changes, change)
	}
	for _, field := range prev.Keys() {
		if _, ok := next[field]; ok {
			continue
		}
		oldVal := prev[field]
		changes = append(changes, model.SettingsChangeModel{
			Key:           key,
			Field:         field,
			Action:        model.ChangeActionRemove,
			OldValue:      &oldVal,
			CreatedAtUnix: at,
		})
	}
	return changes
}

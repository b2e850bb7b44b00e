package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "inventory/internal/errors"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/schema"
)

// dbPreferenceStore keeps view preferences in the view_preferences table.
type dbPreferenceStore struct {
	db *gorm.DB
}

// NewDBPreferenceStore creates a PreferenceStore backed by db.
func NewDBPreferenceStore(db *gorm.DB) PreferenceStore {
	return &dbPreferenceStore{db: db}
}

func (s *dbPreferenceStore) Get(ctx context.Context, username, resource string) ([]string, bool, error) {
	var pref models.ViewPreference
	err := s.db.WithContext(ctx).Where("username = ? AND resource = ?", username, resource).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var columns []string
	if err := json.Unmarshal(pref.Columns, &columns); err != nil {
		return nil, false, fmt.Errorf("decode view preference: %w", err)
	}
	return columns, true, nil
}

func (s *dbPreferenceStore) Put(ctx context.Context, username, resource string, columns []string) error {
	raw, err := json.Marshal(columns)
	if err != nil {
		return err
	}
	pref := &models.ViewPreference{
		Username:  username,
		Resource:  resource,
		Columns:   datatypes.JSON(raw),
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "resource"}},
		DoUpdates: clause.AssignmentColumns([]string{"columns", "updated_at"}),
	}).Create(pref).Error
}

// preferenceService resolves which columns a user sees.
type preferenceService struct {
	registry *schema.Registry
	store    PreferenceStore
}

// NewPreferenceService creates a new PreferenceServicer.
func NewPreferenceService(registry *schema.Registry, store PreferenceStore) PreferenceServicer {
	return &preferenceService{registry: registry, store: store}
}

// VisibleColumns picks the explicitly requested columns, else the user's
// saved columns, else the schema default. Unknown keys are dropped at every
// step. A failing store is logged and treated as having nothing saved.
func (s *preferenceService) VisibleColumns(ctx context.Context, username string, res *schema.Resource, requested []string) []string {
	if cols := res.ValidColumns(requested); len(cols) > 0 {
		return cols
	}
	if cols, ok := s.saved(ctx, username, res); ok {
		return cols
	}
	return res.VisibleColumns(nil)
}

func (s *preferenceService) saved(ctx context.Context, username string, res *schema.Resource) ([]string, bool) {
	if username == "" {
		return nil, false
	}
	cols, found, err := s.store.Get(ctx, username, res.Name)
	if err != nil {
		logger.Get().Warnw("failed to load view preference", "username", username, "resource", res.Name, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	cols = res.ValidColumns(cols)
	return cols, len(cols) > 0
}

// GetView returns the columns username sees on name.
func (s *preferenceService) GetView(ctx context.Context, username, name string) (*View, error) {
	res, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if cols, ok := s.saved(ctx, username, res); ok {
		return &View{Resource: res.Name, Columns: cols, Saved: true}, nil
	}
	return &View{Resource: res.Name, Columns: res.VisibleColumns(nil)}, nil
}

// SaveView stores the columns username wants on name. Unknown keys are
// dropped; at least one known column must remain.
func (s *preferenceService) SaveView(ctx context.Context, username, name string, columns []string) (*View, error) {
	res, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, apperrors.ErrUnauthorized
	}
	cols := res.ValidColumns(columns)
	if len(cols) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Select at least one known column")
	}
	if err := s.store.Put(ctx, username, res.Name, cols); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &View{Resource: res.Name, Columns: cols, Saved: true}, nil
}

package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	obserrors "github.com/david50407/obs-studio/internal/errors"
	"github.com/david50407/obs-studio/internal/modules/pluginmodule"
	"github.com/david50407/obs-studio/internal/services"
	"github.com/david50407/obs-studio/internal/types"
)

var (
	_ pluginmodule.StatusRecorder = (*ModuleStore)(nil)
	_ services.HistoryService     = (*ModuleStore)(nil)
)

// DefaultHistoryLimit caps history queries without an explicit limit
const DefaultHistoryLimit = 100

// ModuleStore persists module status transitions and registered types
type ModuleStore struct {
	db *gorm.DB
}

// NewModuleStore creates a store on an opened, migrated database
func NewModuleStore(db *gorm.DB) *ModuleStore {
	return &ModuleStore{db: db}
}

// RecordStatus upserts the module's latest status and appends a history row
func (s *ModuleStore) RecordStatus(status pluginmodule.ModuleStatus) error {
	record := ModuleRecord{
		NameKey:      strings.ToLower(status.Name),
		Name:         status.Name,
		State:        string(status.State),
		Path:         status.Path,
		DataPath:     status.DataPath,
		Version:      status.Version,
		Description:  status.Description,
		ErrorType:    status.ErrorType,
		ErrorMessage: status.Error,
		TypeCount:    len(status.Types),
		RunID:        status.RunID,
		LoadedAt:     status.LoadedAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "state", "path", "data_path", "version", "description",
				"error_type", "error_message", "type_count", "run_id", "loaded_at", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
			return err
		}

		return tx.Create(&ModuleHistory{
			RunID:        status.RunID,
			Module:       status.Name,
			State:        string(status.State),
			ErrorType:    status.ErrorType,
			ErrorMessage: status.Error,
		}).Error
	})
	if err != nil {
		return obserrors.StoreError("record_status", err).WithModule(status.Name)
	}
	return nil
}

// RecordTypes replaces the types stored for a module
func (s *ModuleStore) RecordTypes(runID, module string, infos []pluginmodule.TypeInfo) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module = ?", module).Delete(&TypeRecord{}).Error; err != nil {
			return err
		}
		if len(infos) == 0 {
			return nil
		}

		records := make([]TypeRecord, 0, len(infos))
		for _, info := range infos {
			records = append(records, TypeRecord{
				RunID:    runID,
				Module:   module,
				Category: string(info.Category),
				TypeID:   info.ID,
			})
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return obserrors.StoreError("record_types", err).WithModule(module)
	}
	return nil
}

// GetModule returns the stored status of a module by case-insensitive name
func (s *ModuleStore) GetModule(name string) (*ModuleRecord, error) {
	var record ModuleRecord
	err := s.db.Where("name_key = ?", strings.ToLower(name)).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, obserrors.NotFoundError("get_module", obserrors.ErrModuleNotFound).WithModule(name)
		}
		return nil, obserrors.StoreError("get_module", err).WithModule(name)
	}
	return &record, nil
}

// ListModules returns every stored module ordered by name
func (s *ModuleStore) ListModules() ([]ModuleRecord, error) {
	var records []ModuleRecord
	if err := s.db.Order("name_key").Find(&records).Error; err != nil {
		return nil, obserrors.StoreError("list_modules", err)
	}
	return records, nil
}

// Types returns the stored types of a module
func (s *ModuleStore) Types(module string) ([]TypeRecord, error) {
	var records []TypeRecord
	if err := s.db.Where("module = ?", module).Order("id").Find(&records).Error; err != nil {
		return nil, obserrors.StoreError("list_types", err).WithModule(module)
	}
	return records, nil
}

// History returns the newest transitions first, optionally for one module
func (s *ModuleStore) History(ctx context.Context, module string, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := s.db.WithContext(ctx).Order("id desc").Limit(limit)
	if module != "" {
		query = query.Where("LOWER(module) = ?", strings.ToLower(module))
	}

	var rows []ModuleHistory
	if err := query.Find(&rows).Error; err != nil {
		return nil, obserrors.StoreError("history", err).WithModule(module)
	}

	entries := make([]types.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, types.HistoryEntry{
			RunID:        row.RunID,
			Module:       row.Module,
			State:        row.State,
			ErrorType:    row.ErrorType,
			ErrorMessage: row.ErrorMessage,
			At:           row.CreatedAt,
		})
	}
	return entries, nil
}

package pluginmodule

import (
	"context"
	"fmt"

	obserrors "github.com/david50407/obs-studio/internal/errors"
	"github.com/david50407/obs-studio/internal/services"
	"github.com/david50407/obs-studio/internal/types"
)

// Ensure ServiceAdapter implements ModuleService
var _ services.ModuleService = (*ServiceAdapter)(nil)

// ServiceAdapter adapts the ModuleManager to the ModuleService interface
type ServiceAdapter struct {
	manager *ModuleManager
}

// NewServiceAdapter creates a new service adapter for the manager
func NewServiceAdapter(manager *ModuleManager) *ServiceAdapter {
	return &ServiceAdapter{manager: manager}
}

// ListModules returns every module a load was attempted for
func (s *ServiceAdapter) ListModules(ctx context.Context) ([]types.ModuleInfo, error) {
	statuses := s.manager.Statuses()
	infos := make([]types.ModuleInfo, 0, len(statuses))
	for _, st := range statuses {
		infos = append(infos, s.toInfo(st))
	}
	return infos, nil
}

// GetModule retrieves a module by case-insensitive name
func (s *ServiceAdapter) GetModule(ctx context.Context, name string) (*types.ModuleInfo, error) {
	st, ok := s.manager.Status(name)
	if !ok {
		return nil, obserrors.NotFoundError("get_module", obserrors.ErrModuleNotFound).WithModule(name)
	}
	info := s.toInfo(st)
	return &info, nil
}

// LoadModule loads a module and returns its resulting status. A failed load
// returns both the status and the load error.
func (s *ServiceAdapter) LoadModule(ctx context.Context, name string) (*types.ModuleInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loadErr := s.manager.LoadModule(name)
	st, ok := s.manager.Status(name)
	if !ok {
		return nil, loadErr
	}
	info := s.toInfo(st)
	return &info, loadErr
}

// ListTypes returns registered descriptors, optionally of one category
func (s *ServiceAdapter) ListTypes(ctx context.Context, category string) ([]types.TypeInfo, error) {
	var categories []Category
	if category != "" {
		c, ok := ParseCategory(category)
		if !ok {
			return nil, obserrors.ValidationError("list_types", fmt.Errorf("%w: unknown category %q", obserrors.ErrInvalidConfig, category))
		}
		categories = append(categories, c)
	}
	return toTypeInfos(s.manager.Registry().Types(categories...)), nil
}

// FindModuleFile resolves a file in a loaded module's data directory
func (s *ServiceAdapter) FindModuleFile(ctx context.Context, module, file string) (string, error) {
	if file == "" {
		return "", obserrors.ValidationError("find_module_file", fmt.Errorf("%w: empty file name", obserrors.ErrInvalidConfig)).WithModule(module)
	}
	if !localDataPath(file) {
		return "", obserrors.ValidationError("find_module_file", fmt.Errorf("%w: %q leaves the data directory", obserrors.ErrInvalidConfig, file)).WithModule(module)
	}
	if _, ok := s.manager.Table().Find(module); !ok {
		return "", obserrors.NotFoundError("find_module_file", obserrors.ErrModuleNotFound).WithModule(module)
	}

	path, ok := s.manager.FindModuleFile(module, file)
	if !ok {
		return "", obserrors.NotFoundError("find_module_file", fmt.Errorf("file %q not found", file)).WithModule(module)
	}
	return path, nil
}

// GetLocale builds a module's locale table. Empty locales fall back to the
// manager's configured ones.
func (s *ServiceAdapter) GetLocale(ctx context.Context, module, defaultLocale, locale string) (*types.LocaleInfo, error) {
	if defaultLocale == "" {
		defaultLocale = s.manager.DefaultLocale()
	}
	if locale == "" {
		locale = s.manager.Locale()
	}
	for _, code := range []string{defaultLocale, locale} {
		if !ValidLocale(code) {
			return nil, obserrors.ValidationError("get_locale", fmt.Errorf("%w: invalid locale %q", obserrors.ErrInvalidConfig, code)).WithModule(module)
		}
	}
	if _, ok := s.manager.Table().Find(module); !ok {
		return nil, obserrors.NotFoundError("get_locale", obserrors.ErrModuleNotFound).WithModule(module)
	}

	table := s.manager.LoadLocale(module, defaultLocale, locale)
	if table == nil {
		return nil, obserrors.LocaleError("get_locale", obserrors.ErrLocaleLoad).
			WithModule(module).
			WithDetail("locale", defaultLocale)
	}

	return &types.LocaleInfo{
		Module:        module,
		DefaultLocale: defaultLocale,
		Locale:        locale,
		Files:         table.Files(),
		Entries:       table.Entries(),
	}, nil
}

// GetStats summarizes the current run
func (s *ServiceAdapter) GetStats(ctx context.Context) (*types.ModuleStats, error) {
	stats := &types.ModuleStats{
		RunID:      s.manager.RunID(),
		TypeCounts: make(map[string]int),
	}

	for _, st := range s.manager.Statuses() {
		stats.Attempted++
		switch st.State {
		case StateActive:
			stats.Active++
		case StateRejected:
			stats.Rejected++
		case StateFailed:
			stats.Failed++
		}
	}

	registry := s.manager.Registry()
	for _, c := range Categories {
		stats.TypeCounts[string(c)] = registry.Count(c)
	}
	return stats, nil
}

func (s *ServiceAdapter) toInfo(st ModuleStatus) types.ModuleInfo {
	info := types.ModuleInfo{
		Name:        st.Name,
		State:       string(st.State),
		Path:        st.Path,
		DataPath:    st.DataPath,
		Version:     st.Version,
		Description: st.Description,
		ErrorType:   st.ErrorType,
		Error:       st.Error,
		Types:       toTypeInfos(st.Types),
		RunID:       st.RunID,
		LoadedAt:    st.LoadedAt,
		UpdatedAt:   st.UpdatedAt,
	}

	if loaded, ok := s.manager.Table().Find(st.Name); ok {
		info.HasLocale = loaded.HasLocaleCallback()
		info.HasUnload = loaded.HasUnloadCallback()
	}
	return info
}

func toTypeInfos(in []TypeInfo) []types.TypeInfo {
	out := make([]types.TypeInfo, 0, len(in))
	for _, t := range in {
		out = append(out, types.TypeInfo{Category: string(t.Category), ID: t.ID, Module: t.Module})
	}
	return out
}

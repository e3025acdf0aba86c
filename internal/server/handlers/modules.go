// Package handlers provides HTTP handlers for the module introspection API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	obserrors "github.com/david50407/obs-studio/internal/errors"
	"github.com/david50407/obs-studio/internal/services"
)

// ModulesHandler serves module status, types, data files and locale tables
type ModulesHandler struct {
	modules services.ModuleService
}

// NewModulesHandler creates a handler backed by a module service
func NewModulesHandler(modules services.ModuleService) *ModulesHandler {
	return &ModulesHandler{modules: modules}
}

// ListModules returns every module a load was attempted for
func (h *ModulesHandler) ListModules(c *gin.Context) {
	modules, err := h.modules.ListModules(c.Request.Context())
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"modules": modules,
		"count":   len(modules),
	})
}

// GetModule returns one module by name
func (h *ModulesHandler) GetModule(c *gin.Context) {
	module, err := h.modules.GetModule(c.Request.Context(), c.Param("name"))
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}
	c.JSON(http.StatusOK, module)
}

// LoadModule loads a module by name. A module that was located but refused
// to load is reported with its final status.
func (h *ModulesHandler) LoadModule(c *gin.Context) {
	name := c.Param("name")
	module, err := h.modules.LoadModule(c.Request.Context(), name)
	if err == nil {
		c.JSON(http.StatusOK, module)
		return
	}

	if errors.Is(err, obserrors.ErrAlreadyLoaded) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"code":   "MODULE_ALREADY_LOADED",
			"module": module,
		})
		return
	}

	apiErr := obserrors.FromModuleError(err)
	if module != nil {
		c.JSON(apiErr.HTTPStatus, gin.H{
			"error":  apiErr.Message,
			"code":   apiErr.Code,
			"module": module,
		})
		return
	}
	apiErr.ToGinResponse(c)
}

// FindFile resolves ?path= in a loaded module's data directory
func (h *ModulesHandler) FindFile(c *gin.Context) {
	file := c.Query("path")
	if file == "" {
		obserrors.HandleValidationError(c, "path query parameter is required", "path")
		return
	}

	path, err := h.modules.FindModuleFile(c.Request.Context(), c.Param("name"), file)
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"module": c.Param("name"),
		"file":   file,
		"path":   path,
	})
}

// GetLocale returns a module's locale table for ?default= and ?active=
func (h *ModulesHandler) GetLocale(c *gin.Context) {
	locale, err := h.modules.GetLocale(c.Request.Context(), c.Param("name"), c.Query("default"), c.Query("active"))
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}
	c.JSON(http.StatusOK, locale)
}

// ListTypes returns registered descriptors, optionally of one category
func (h *ModulesHandler) ListTypes(c *gin.Context) {
	types, err := h.modules.ListTypes(c.Request.Context(), c.Param("category"))
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"types": types,
		"count": len(types),
	})
}

// GetStats summarizes the current run
func (h *ModulesHandler) GetStats(c *gin.Context) {
	stats, err := h.modules.GetStats(c.Request.Context())
	if err != nil {
		obserrors.FromModuleError(err).ToGinResponse(c)
		return
	}
	c.JSON(http.StatusOK, stats)
}

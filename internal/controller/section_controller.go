package controller

import (
	"interrogator/internal/model"
	"interrogator/internal/service"
	"interrogator/internal/util"

	"github.com/gin-gonic/gin"
)

type SectionController struct {
	Service *service.Interrogator
}

func NewSectionController(s *service.Interrogator) *SectionController {
	return &SectionController{Service: s}
}

// ref resolves the :ref parameter inside the caller's tenant.
func (c *SectionController) ref(ctx *gin.Context, withTrashed bool) (model.SectionRef, bool) {
	return scopedRef(ctx, c.Service.Sections.Resolve, ctx.Param("ref"), withTrashed, "section", util.ErrSectionNotFound)
}

// @Summary List sections
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param class query string false "answerable type"
// @Success 200 {object} util.Response
// @Router /api/sections [get]
func (c *SectionController) List(ctx *gin.Context) {
	sections, err := c.Service.GetSections(ctx.Request.Context(), ctx.Query("class"), util.TenantFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sections)
}

// @Summary Create a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSectionRequest true "section"
// @Success 201 {object} util.Response
// @Router /api/sections [post]
func (c *SectionController) Create(ctx *gin.Context) {
	var req CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.Service.CreateSection(ctx.Request.Context(), service.SectionParams{
		Name:      req.Name,
		ClassName: req.ClassName,
		Options:   req.Options,
		Tenant:    util.TenantFromContext(ctx),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// @Summary Get a section by id or slug
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref} [get]
func (c *SectionController) Get(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, err := c.Service.GetSection(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// @Summary Update a section; options are replaced as a whole
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body UpdateSectionRequest true "changes"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref} [put]
func (c *SectionController) Update(ctx *gin.Context) {
	var req UpdateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, err := c.Service.UpdateSection(ctx.Request.Context(), ref, service.SectionUpdate{
		Name:      req.Name,
		ClassName: req.ClassName,
		Options:   req.Options,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// @Summary Delete a section with its groups, questions and answers
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref} [delete]
func (c *SectionController) Delete(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	res, err := c.Service.DeleteSection(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary Restore a deleted section
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref}/restore [post]
func (c *SectionController) Restore(ctx *gin.Context) {
	ref, ok := c.ref(ctx, true)
	if !ok {
		return
	}
	section, res, err := c.Service.RestoreSection(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"section": section, "restored": res})
}

// @Summary Copy a section to another answerable type
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body CopySectionRequest true "target"
// @Success 201 {object} util.Response
// @Router /api/sections/{ref}/copy [post]
func (c *SectionController) Copy(ctx *gin.Context) {
	var req CopySectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, err := c.Service.CopySection(ctx.Request.Context(), ref, req.ClassName)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// @Summary Detach a section from its answerable type
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref}/detach [post]
func (c *SectionController) Detach(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, err := c.Service.DetachSection(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// @Summary Set one option on a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param key path string true "option key"
// @Param body body SetOptionRequest true "value"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref}/options/{key} [put]
func (c *SectionController) SetOption(ctx *gin.Context) {
	value, ok := bindOptionValue(ctx)
	if !ok {
		return
	}
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, err := c.Service.SetOptionOnSection(ctx.Request.Context(), ref, ctx.Param("key"), value)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// @Summary Remove one option from a section
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param key path string true "option key"
// @Success 200 {object} util.Response
// @Router /api/sections/{ref}/options/{key} [delete]
func (c *SectionController) UnsetOption(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, err := c.Service.UnsetOptionOnSection(ctx.Request.Context(), ref, ctx.Param("key"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

func bindOptionValue(ctx *gin.Context) (model.Value, bool) {
	var req SetOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return model.Value{}, false
	}
	if req.Value.Kind() == model.InvalidKind {
		util.BadRequest(ctx, "value is required")
		return model.Value{}, false
	}
	return req.Value, true
}

package controller

import (
	"interrogator/internal/model"
	"interrogator/internal/service"
	"interrogator/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	Service *service.Interrogator
}

func NewGroupController(s *service.Interrogator) *GroupController {
	return &GroupController{Service: s}
}

func (c *GroupController) ref(ctx *gin.Context, withTrashed bool) (model.GroupRef, bool) {
	return scopedRef(ctx, c.Service.Groups.Resolve, ctx.Param("ref"), withTrashed, "group", util.ErrGroupNotFound)
}

// section resolves a parent section named in a request body. Blank means none.
func (c *GroupController) section(ctx *gin.Context, raw string) (model.SectionRef, bool) {
	return scopedRef(ctx, c.Service.Sections.Resolve, raw, false, "section", util.ErrSectionNotFound)
}

// @Summary List groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param section query string false "section id or slug"
// @Success 200 {object} util.Response
// @Router /api/groups [get]
func (c *GroupController) List(ctx *gin.Context) {
	section := model.ParseRef[model.Section](ctx.Query("section"))
	groups, err := c.Service.GetGroups(ctx.Request.Context(), section, util.TenantFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateGroupRequest true "group"
// @Success 201 {object} util.Response
// @Router /api/groups [post]
func (c *GroupController) Create(ctx *gin.Context) {
	var req CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, ok := c.section(ctx, req.Section)
	if !ok {
		return
	}
	group, err := c.Service.CreateGroup(ctx.Request.Context(), service.GroupParams{
		Name:    req.Name,
		Section: section,
		Options: req.Options,
		Tenant:  util.TenantFromContext(ctx),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary Get a group by id or slug
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/groups/{ref} [get]
func (c *GroupController) Get(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	group, err := c.Service.GetGroup(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary Update a group; options are replaced as a whole
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body UpdateGroupRequest true "changes"
// @Success 200 {object} util.Response
// @Router /api/groups/{ref} [put]
func (c *GroupController) Update(ctx *gin.Context) {
	var req UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, ok := c.section(ctx, req.Section)
	if !ok {
		return
	}
	group, err := c.Service.UpdateGroup(ctx.Request.Context(), ref, service.GroupUpdate{
		Name:    req.Name,
		Section: section,
		Options: req.Options,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary Delete a group with its questions and answers
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/groups/{ref} [delete]
func (c *GroupController) Delete(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	res, err := c.Service.DeleteGroup(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary Restore a deleted group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/groups/{ref}/restore [post]
func (c *GroupController) Restore(ctx *gin.Context) {
	ref, ok := c.ref(ctx, true)
	if !ok {
		return
	}
	group, res, err := c.Service.RestoreGroup(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"group": group, "restored": res})
}

// @Summary Copy a group into another section
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body CopyGroupRequest true "target"
// @Success 201 {object} util.Response
// @Router /api/groups/{ref}/copy [post]
func (c *GroupController) Copy(ctx *gin.Context) {
	var req CopyGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	section, ok := c.section(ctx, req.Section)
	if !ok {
		return
	}
	group, err := c.Service.CopyGroup(ctx.Request.Context(), ref, section)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary Set one option on a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param key path string true "option key"
// @Param body body SetOptionRequest true "value"
// @Success 200 {object} util.Response
// @Router /api/groups/{ref}/options/{key} [put]
func (c *GroupController) SetOption(ctx *gin.Context) {
	value, ok := bindOptionValue(ctx)
	if !ok {
		return
	}
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	group, err := c.Service.SetOptionOnGroup(ctx.Request.Context(), ref, ctx.Param("key"), value)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// @Summary Remove one option from a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param key path string true "option key"
// @Success 200 {object} util.Response
// @Router /api/groups/{ref}/options/{key} [delete]
func (c *GroupController) UnsetOption(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	group, err := c.Service.UnsetOptionOnGroup(ctx.Request.Context(), ref, ctx.Param("key"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

package controller

import (
	"interrogator/internal/model"
	"interrogator/internal/service"
	"interrogator/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.Interrogator
}

func NewQuestionController(s *service.Interrogator) *QuestionController {
	return &QuestionController{Service: s}
}

func (c *QuestionController) ref(ctx *gin.Context, withTrashed bool) (model.QuestionRef, bool) {
	return scopedRef(ctx, c.Service.Questions.Resolve, ctx.Param("ref"), withTrashed, "question", util.ErrQuestionNotFound)
}

func (c *QuestionController) group(ctx *gin.Context, raw string) (model.GroupRef, bool) {
	return scopedRef(ctx, c.Service.Groups.Resolve, raw, false, "group", util.ErrGroupNotFound)
}

// @Summary List questions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param type query string false "question type id or slug"
// @Param group query string false "group id or slug"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	questions, err := c.Service.GetQuestions(ctx.Request.Context(),
		model.ParseRef[model.QuestionType](ctx.Query("type")),
		model.ParseRef[model.Group](ctx.Query("group")),
		util.TenantFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary List the question types
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/question-types [get]
func (c *QuestionController) Types(ctx *gin.Context) {
	types, err := c.Service.Types.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, types)
}

// @Summary Create a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateQuestionRequest true "question"
// @Success 201 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, ok := c.group(ctx, req.Group)
	if !ok {
		return
	}
	question, err := c.Service.CreateQuestion(ctx.Request.Context(), service.QuestionParams{
		Name:    req.Name,
		Type:    model.ParseRef[model.QuestionType](req.Type),
		Group:   group,
		Options: req.Options,
		Choices: req.Choices,
		Tenant:  util.TenantFromContext(ctx),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if req.AllowsOther {
		question, err = c.Service.SetAllowsMultipleChoiceOther(ctx.Request.Context(), model.Of(question), true)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
	}
	util.Created(ctx, question)
}

// @Summary Get a question by id or slug
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	question, err := c.Service.GetQuestion(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Update a question; options are replaced as a whole
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body UpdateQuestionRequest true "changes"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	var req UpdateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	group, ok := c.group(ctx, req.Group)
	if !ok {
		return
	}
	question, err := c.Service.UpdateQuestion(ctx.Request.Context(), ref, service.QuestionUpdate{
		Name:    req.Name,
		Group:   group,
		Options: req.Options,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Delete a question with its answers
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	res, err := c.Service.DeleteQuestion(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary Restore a deleted question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref}/restore [post]
func (c *QuestionController) Restore(ctx *gin.Context) {
	ref, ok := c.ref(ctx, true)
	if !ok {
		return
	}
	question, res, err := c.Service.RestoreQuestion(ctx.Request.Context(), ref)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"question": question, "restored": res})
}

// @Summary Copy a question into another group
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body CopyQuestionRequest true "target"
// @Success 201 {object} util.Response
// @Router /api/questions/{ref}/copy [post]
func (c *QuestionController) Copy(ctx *gin.Context) {
	var req CopyQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	group, ok := c.group(ctx, req.Group)
	if !ok {
		return
	}
	question, err := c.Service.CopyQuestion(ctx.Request.Context(), ref, group)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary Append choices to a multiple choice question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body AddChoicesRequest true "choices"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref}/choices [post]
func (c *QuestionController) AddChoices(ctx *gin.Context) {
	var req AddChoicesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	question, err := c.Service.AddChoices(ctx.Request.Context(), ref, req.Choices...)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Allow or forbid a free-text "other" choice
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param body body AllowsOtherRequest true "flag"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref}/allows-other [put]
func (c *QuestionController) SetAllowsOther(ctx *gin.Context) {
	var req AllowsOtherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	question, err := c.Service.SetAllowsMultipleChoiceOther(ctx.Request.Context(), ref, req.Allow)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Set one option on a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param key path string true "option key"
// @Param body body SetOptionRequest true "value"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref}/options/{key} [put]
func (c *QuestionController) SetOption(ctx *gin.Context) {
	value, ok := bindOptionValue(ctx)
	if !ok {
		return
	}
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	question, err := c.Service.SetOptionOnQuestion(ctx.Request.Context(), ref, ctx.Param("key"), value)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Remove one option from a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param ref path string true "id or slug"
// @Param key path string true "option key"
// @Success 200 {object} util.Response
// @Router /api/questions/{ref}/options/{key} [delete]
func (c *QuestionController) UnsetOption(ctx *gin.Context) {
	ref, ok := c.ref(ctx, false)
	if !ok {
		return
	}
	question, err := c.Service.UnsetOptionOnQuestion(ctx.Request.Context(), ref, ctx.Param("key"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

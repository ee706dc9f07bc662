package controller

import (
	"fmt"
	"interrogator/internal/model"
	"interrogator/internal/service"
	"interrogator/internal/util"

	"github.com/gin-gonic/gin"
)

// AnswerController exposes the answer engine for registered host entities,
// addressed as /answerables/:type/:id.
type AnswerController struct {
	Engine *service.AnswerEngine
}

func NewAnswerController(e *service.AnswerEngine) *AnswerController {
	return &AnswerController{Engine: e}
}

func (c *AnswerController) load(ctx *gin.Context) (*service.Interrogated, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid answerable id")
		return nil, false
	}
	entity, err := c.Engine.Load(ctx.Request.Context(), ctx.Param("type"), id)
	if err != nil {
		util.HandleError(ctx, err)
		return nil, false
	}
	if entity.Tenant() != util.TenantFromContext(ctx) {
		util.HandleError(ctx, fmt.Errorf("%w: %s %d", util.ErrAnswerableNotFound, ctx.Param("type"), id))
		return nil, false
	}
	return c.Engine.For(entity), true
}

func (c *AnswerController) question(ctx *gin.Context) (model.QuestionRef, bool) {
	return scopedRef(ctx, c.Engine.Questions.Resolve, ctx.Param("question"), false, "question", util.ErrQuestionNotFound)
}

// @Summary List the answerable types
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/answerables [get]
func (c *AnswerController) Types(ctx *gin.Context) {
	util.Success(ctx, c.Engine.Registry.Types())
}

// @Summary Sections attached to the entity's type
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param type path string true "answerable type"
// @Param id path int true "answerable id"
// @Success 200 {object} util.Response
// @Router /api/answerables/{type}/{id}/sections [get]
func (c *AnswerController) Sections(ctx *gin.Context) {
	entity, ok := c.load(ctx)
	if !ok {
		return
	}
	sections, err := entity.Sections(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sections)
}

// @Summary The entity's answers
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param type path string true "answerable type"
// @Param id path int true "answerable id"
// @Success 200 {object} util.Response
// @Router /api/answerables/{type}/{id}/answers [get]
func (c *AnswerController) List(ctx *gin.Context) {
	entity, ok := c.load(ctx)
	if !ok {
		return
	}
	answers, err := entity.Answers(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

// @Summary The entity's answer to one question
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param type path string true "answerable type"
// @Param id path int true "answerable id"
// @Param question path string true "question id or slug"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/answerables/{type}/{id}/answers/{question} [get]
func (c *AnswerController) Get(ctx *gin.Context) {
	entity, ok := c.load(ctx)
	if !ok {
		return
	}
	question, ok := c.question(ctx)
	if !ok {
		return
	}
	answer, err := entity.GetAnswerFromQuestion(ctx.Request.Context(), question)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if answer == nil {
		util.NotFoundMessage(ctx, "no answer to this question")
		return
	}
	util.Success(ctx, answer)
}

// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "answerable type"
// @Param id path int true "answerable id"
// @Param question path string true "question id or slug"
// @Param body body AnswerRequest true "value"
// @Success 200 {object} util.Response
// @Router /api/answerables/{type}/{id}/answers/{question} [put]
func (c *AnswerController) Answer(ctx *gin.Context) {
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	entity, ok := c.load(ctx)
	if !ok {
		return
	}
	question, ok := c.question(ctx)
	if !ok {
		return
	}
	answer, err := entity.AnswerQuestion(ctx.Request.Context(), question, req.Value)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

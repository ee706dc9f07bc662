package controller

import (
	"interrogator/internal/model"
	"interrogator/internal/service"
	"interrogator/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type SearchController struct {
	Service *service.SearchService
}

func NewSearchController(s *service.SearchService) *SearchController {
	return &SearchController{Service: s}
}

// @Summary Search answers
// @Description "*" matches any run of characters and "?" one character, unless exact is set.
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param term query string true "search term"
// @Param exact query bool false "match the whole value"
// @Param class query string false "answerable type"
// @Param question query string false "question id or slug"
// @Param type query string false "question type id or slug"
// @Success 200 {object} util.Response
// @Router /api/search [get]
func (c *SearchController) Search(ctx *gin.Context) {
	term, ok := ctx.GetQuery("term")
	if !ok {
		util.BadRequest(ctx, "term is required")
		return
	}
	var (
		className = ctx.Query("class")
		tenant    = util.TenantFromContext(ctx)
		reqCtx    = ctx.Request.Context()
		answers   []model.Answer
		err       error
	)

	switch {
	case ctx.Query("type") != "":
		answers, err = c.Service.SearchByType(reqCtx, term, className, model.ParseRef[model.QuestionType](ctx.Query("type")), tenant)
	case ctx.Query("question") != "":
		answers, err = c.Service.SearchQuestion(reqCtx, term, className, model.ParseRef[model.Question](ctx.Query("question")), tenant)
	case cast.ToBool(ctx.Query("exact")):
		answers, err = c.Service.SearchExact(reqCtx, term, service.SearchScope{ClassName: className, Tenant: tenant})
	default:
		answers, err = c.Service.Search(reqCtx, term, service.SearchScope{ClassName: className, Tenant: tenant})
	}
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

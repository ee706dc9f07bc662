package controller

import (
	"context"
	"interrogator/internal/model"
	"interrogator/internal/util"

	"github.com/gin-gonic/gin"
)

type tenantOwned[T any] interface {
	*T
	Tenant() model.Tenant
}

type resolveFunc[T any] func(ctx context.Context, ref model.Ref[T], withTrashed bool) (*T, error)

// scopedRef resolves raw inside the caller's tenant. Records of another
// tenant are reported as not found. A blank value yields the empty ref. On
// failure the response has been written.
func scopedRef[T any, PT tenantOwned[T]](ctx *gin.Context, resolve resolveFunc[T], raw string, withTrashed bool, kind string, sentinel error) (model.Ref[T], bool) {
	ref := model.ParseRef[T](raw)
	if ref.IsZero() {
		return ref, true
	}
	entity, err := resolve(ctx.Request.Context(), ref, withTrashed)
	if err != nil {
		util.HandleError(ctx, err)
		return ref, false
	}
	if PT(entity).Tenant() != util.TenantFromContext(ctx) {
		by := util.LookupBySlug
		if _, isID := ref.ID(); isID {
			by = util.LookupByID
		}
		util.HandleError(ctx, util.NewNotFoundError(sentinel, kind, by, ref.String()))
		return ref, false
	}
	return model.Of(entity), true
}

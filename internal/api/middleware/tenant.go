package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/talentbase/resumeflow/internal/tenant"
	"github.com/talentbase/resumeflow/internal/utils"
)

// TenantScope resolves the request host to a partition and stamps it on the
// request context. Every handler past this point operates inside exactly one
// tenant's data space.
func TenantScope(resolver *tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		partition, err := resolver.Resolve(c.Request.Context(), c.Request.Host)
		if err != nil {
			c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
				Code:    utils.CodeForbidden,
				Message: "unknown tenant",
			})
			return
		}

		c.Set("partition", string(partition))
		c.Request = c.Request.WithContext(tenant.WithPartition(c.Request.Context(), partition))
		c.Next()
	}
}

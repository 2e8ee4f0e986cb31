package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/interfaces/http/middleware"
	"github.com/casework-hq/casework/internal/shared/authorization"
)

// GuardedGroup registers routes behind the authorization gate. Every route
// gets OpenGate, its guards and EnforceGate ahead of the handler, so a route
// registered without guards is denied.
type GuardedGroup struct {
	group *gin.RouterGroup
	gate  *middleware.GateMiddleware
}

func NewGuardedGroup(group *gin.RouterGroup, gate *middleware.GateMiddleware) *GuardedGroup {
	return &GuardedGroup{
		group: group,
		gate:  gate,
	}
}

func (g *GuardedGroup) Handle(method, path string, handler gin.HandlerFunc, guards ...authorization.Guard) gin.IRoutes {
	return g.group.Handle(method, path,
		g.gate.OpenGate(),
		g.gate.Guard(guards...),
		g.gate.EnforceGate(),
		handler,
	)
}

func (g *GuardedGroup) GET(path string, handler gin.HandlerFunc, guards ...authorization.Guard) gin.IRoutes {
	return g.Handle(http.MethodGet, path, handler, guards...)
}

func (g *GuardedGroup) POST(path string, handler gin.HandlerFunc, guards ...authorization.Guard) gin.IRoutes {
	return g.Handle(http.MethodPost, path, handler, guards...)
}

func (g *GuardedGroup) PUT(path string, handler gin.HandlerFunc, guards ...authorization.Guard) gin.IRoutes {
	return g.Handle(http.MethodPut, path, handler, guards...)
}

func (g *GuardedGroup) PATCH(path string, handler gin.HandlerFunc, guards ...authorization.Guard) gin.IRoutes {
	return g.Handle(http.MethodPatch, path, handler, guards...)
}

func (g *GuardedGroup) DELETE(path string, handler gin.HandlerFunc, guards ...authorization.Guard) gin.IRoutes {
	return g.Handle(http.MethodDelete, path, handler, guards...)
}

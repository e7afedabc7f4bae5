package http

import "github.com/labstack/echo/v4"

// Handler defines HTTP route registration interface.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

type composite []Handler

func (cs composite) RegisterRoutes(e *echo.Echo) {
	for _, h := range cs {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}

// Compose bundles several handlers into one route registrar.
func Compose(handlers ...Handler) Handler {
	return composite(handlers)
}

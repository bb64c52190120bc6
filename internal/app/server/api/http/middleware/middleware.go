package middleware

import "github.com/danielgtaylor/huma/v2"

// Container collects the middleware chain for one handler package and
// hands it off, so per-route chains are assembled in wiring order.
type Container struct {
	chain huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) {
	c.chain = append(c.chain, mw)
}

func (c *Container) GetAllAndClear() huma.Middlewares {
	chain := c.chain
	c.chain = nil
	return chain
}

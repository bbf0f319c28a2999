package dispatch

// Middleware processes requests before they reach the handler.
type Middleware interface {
	// Handle processes the request and optionally calls next.
	// Return an error to stop the chain and report an error.
	// Return nil without calling next to stop the chain without error;
	// in that case the middleware is expected to have written a response.
	Handle(ctx *Ctx, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx *Ctx, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *Ctx, next func() error) error {
	return f(ctx, next)
}

// Compose builds a handler chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func Compose(ctx *Ctx, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	// Build chain from end to start
	var chain func() error
	chain = handler

	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		return Compose(ctx, middleware, next)
	})
}

// Skip is a middleware that skips to the next middleware based on a condition.
func Skip(condition func(ctx *Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		if condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// Only is a middleware that runs only if a condition is true.
func Only(condition func(ctx *Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		if !condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

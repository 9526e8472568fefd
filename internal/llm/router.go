package llm

import (
	"context"
	"fmt"
	"strings"
)

// Router picks a backend per request. Namespaced model identifiers
// ("org/model") belong to the hosted inference API; bare identifiers go to
// the openai-compatible backend. Either side may be absent.
type Router struct {
	openai Generator
	hf     Generator
}

func NewRouter(openai, hf Generator) *Router {
	return &Router{openai: openai, hf: hf}
}

func (r *Router) Generate(ctx context.Context, req Request) (string, error) {
	hosted := strings.Contains(req.Model, "/")
	switch {
	case hosted && r.hf != nil:
		return r.hf.Generate(ctx, req)
	case !hosted && r.openai != nil:
		return r.openai.Generate(ctx, req)
	case r.hf != nil:
		return r.hf.Generate(ctx, req)
	case r.openai != nil:
		return r.openai.Generate(ctx, req)
	}
	return "", fmt.Errorf("no generation backend configured")
}

package render

import "context"

type Renderer interface {
	RenderListing(ctx context.Context, page ListingPage) ([]byte, error)
	RenderProduct(ctx context.Context, page ProductPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}

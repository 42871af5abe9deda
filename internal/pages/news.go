package pages

import (
	"context"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
)

// NewsAPI is what the news screens call. *hubsdk.Client satisfies it.
type NewsAPI interface {
	ListNews(ctx context.Context, tag string) ([]hubsdk.News, error)
	GetNews(ctx context.Context, id int64) (*hubsdk.News, error)
}

// News backs the feed and the article screen. Both work without signing in.
type News struct {
	api NewsAPI
}

func NewNews(api NewsAPI) *News {
	return &News{api: api}
}

// List returns the feed, newest first. An empty tag means every tag.
func (n *News) List(ctx context.Context, tag string) ([]hubsdk.News, error) {
	return n.api.ListNews(ctx, tag)
}

func (n *News) Get(ctx context.Context, id int64) (*hubsdk.News, error) {
	return n.api.GetNews(ctx, id)
}

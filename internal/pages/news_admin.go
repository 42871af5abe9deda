package pages

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// NewsAdminAPI is what the news editor calls. *hubsdk.Client satisfies it.
type NewsAdminAPI interface {
	ListNews(ctx context.Context, tag string) ([]hubsdk.News, error)
	CreateNews(ctx context.Context, in hubsdk.NewsInput) (*hubsdk.News, error)
	UpdateNews(ctx context.Context, id int64, in hubsdk.NewsInput) (*hubsdk.News, error)
	DeleteNews(ctx context.Context, id int64) error
}

// NewsAdmin is the news editor. It keeps every article, newest first.
type NewsAdmin struct {
	api      NewsAdminAPI
	sess     Session
	articles *optimistic.Cell[[]hubsdk.News]
}

func NewNewsAdmin(api NewsAdminAPI, sess Session) *NewsAdmin {
	return &NewsAdmin{
		api:      api,
		sess:     sess,
		articles: optimistic.NewCell[[]hubsdk.News](nil),
	}
}

func (n *NewsAdmin) Load(ctx context.Context) error {
	if _, err := admin(ctx, n.sess); err != nil {
		return err
	}

	articles, err := n.api.ListNews(ctx, "")
	if err != nil {
		return err
	}
	n.articles.Set(articles)
	return nil
}

func (n *NewsAdmin) Articles() []hubsdk.News {
	return n.articles.Get()
}

// Create publishes an article. The server fills in the tag when it is empty.
func (n *NewsAdmin) Create(ctx context.Context, in hubsdk.NewsInput) (*hubsdk.News, error) {
	in, err := checkNews(in)
	if err != nil {
		return nil, err
	}
	if _, err := admin(ctx, n.sess); err != nil {
		return nil, err
	}

	a, err := n.api.CreateNews(ctx, in)
	if err != nil {
		return nil, err
	}
	insert(n.articles, *a, newestFirst)
	return a, nil
}

// Update replaces the article's fields and swaps the stored copy in the list.
func (n *NewsAdmin) Update(ctx context.Context, id int64, in hubsdk.NewsInput) (*hubsdk.News, error) {
	in, err := checkNews(in)
	if err != nil {
		return nil, err
	}
	if _, err := admin(ctx, n.sess); err != nil {
		return nil, err
	}

	a, err := n.api.UpdateNews(ctx, id, in)
	if err != nil {
		return nil, err
	}
	n.articles.Update(func(list []hubsdk.News) []hubsdk.News {
		list = optimistic.Clone(list)
		for i := range list {
			if list[i].ID == id {
				list[i] = *a
			}
		}
		return list
	})
	return a, nil
}

// Delete hides the article at once and restores it if the server refuses.
func (n *NewsAdmin) Delete(ctx context.Context, id int64) error {
	if _, err := admin(ctx, n.sess); err != nil {
		return err
	}

	return remove(ctx, n.articles,
		func(a hubsdk.News) bool { return a.ID == id },
		func(ctx context.Context) error { return n.api.DeleteNews(ctx, id) },
	)
}

func checkNews(in hubsdk.NewsInput) (hubsdk.NewsInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Tag = strings.TrimSpace(in.Tag)
	if in.Title == "" || in.Content == "" {
		return in, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	return in, nil
}

func newestFirst(a, b hubsdk.News) int {
	return cmp.Compare(b.ID, a.ID)
}

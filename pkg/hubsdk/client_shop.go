package hubsdk

import (
	"context"
	"net/http"
)

func (c *Client) ListShopItems(ctx context.Context) ([]ShopItem, error) {
	return get[[]ShopItem](ctx, c, "/api/shop")
}

func (c *Client) CreateShopItem(ctx context.Context, in ShopItemInput) (*ShopItem, error) {
	item, err := call[ShopItem](ctx, c, http.MethodPost, "/api/shop", in)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteShopItem(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodDelete, "/api/shop/"+itoa(id), nil)
}

// BuyShopItem spends the current user's coins on one unit of an item. The
// server rejects the purchase when coins or stock run out.
func (c *Client) BuyShopItem(ctx context.Context, id int64) (*Purchase, error) {
	p, err := call[Purchase](ctx, c, http.MethodPost, "/api/shop/"+itoa(id)+"/buy", nil)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

package pages

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// ShopAdminAPI is what the shop editor calls. *hubsdk.Client satisfies it.
type ShopAdminAPI interface {
	ListShopItems(ctx context.Context) ([]hubsdk.ShopItem, error)
	CreateShopItem(ctx context.Context, in hubsdk.ShopItemInput) (*hubsdk.ShopItem, error)
	DeleteShopItem(ctx context.Context, id int64) error
}

// ShopAdmin stocks and clears the coin shop. Every action is admin only.
type ShopAdmin struct {
	api   ShopAdminAPI
	sess  Session
	items *optimistic.Cell[[]hubsdk.ShopItem]
}

func NewShopAdmin(api ShopAdminAPI, sess Session) *ShopAdmin {
	return &ShopAdmin{
		api:   api,
		sess:  sess,
		items: optimistic.NewCell[[]hubsdk.ShopItem](nil),
	}
}

func (s *ShopAdmin) Load(ctx context.Context) error {
	if _, err := admin(ctx, s.sess); err != nil {
		return err
	}

	items, err := s.api.ListShopItems(ctx)
	if err != nil {
		return err
	}
	s.items.Set(items)
	return nil
}

func (s *ShopAdmin) Items() []hubsdk.ShopItem {
	return s.items.Get()
}

// Create adds an item with a positive price. A negative stock is sent as
// hubsdk.UnlimitedStock.
func (s *ShopAdmin) Create(ctx context.Context, in hubsdk.ShopItemInput) (*hubsdk.ShopItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.PriceCoins <= 0 {
		return nil, fmt.Errorf("%w: name and a positive price are required", ErrInvalidInput)
	}
	if in.Stock < 0 {
		in.Stock = hubsdk.UnlimitedStock
	}
	if _, err := admin(ctx, s.sess); err != nil {
		return nil, err
	}

	it, err := s.api.CreateShopItem(ctx, in)
	if err != nil {
		return nil, err
	}
	insert(s.items, *it, func(a, b hubsdk.ShopItem) int { return cmp.Compare(a.ID, b.ID) })
	return it, nil
}

// Delete drops the item from the list at once and restores it if the server
// refuses.
func (s *ShopAdmin) Delete(ctx context.Context, id int64) error {
	if _, err := admin(ctx, s.sess); err != nil {
		return err
	}

	return remove(ctx, s.items,
		func(it hubsdk.ShopItem) bool { return it.ID == id },
		func(ctx context.Context) error { return s.api.DeleteShopItem(ctx, id) },
	)
}

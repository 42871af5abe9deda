package pages

import (
	"context"
	"sync"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// ShopAPI is what the shop screen calls. *hubsdk.Client satisfies it.
type ShopAPI interface {
	ListShopItems(ctx context.Context) ([]hubsdk.ShopItem, error)
	BuyShopItem(ctx context.Context, id int64) (*hubsdk.Purchase, error)
}

// Shop is the coin shop screen. Stock changes show before the server confirms
// them.
type Shop struct {
	api   ShopAPI
	sess  Session
	items *optimistic.Cell[[]hubsdk.ShopItem]

	mu      sync.Mutex
	lastErr string
}

// NewShop returns a shop with an empty catalogue. Call Load to fill it.
func NewShop(api ShopAPI, sess Session) *Shop {
	return &Shop{
		api:   api,
		sess:  sess,
		items: optimistic.NewCell[[]hubsdk.ShopItem](nil),
	}
}

func (s *Shop) Load(ctx context.Context) error {
	items, err := s.api.ListShopItems(ctx)
	if err != nil {
		s.setErr(hubsdk.Message(err))
		return err
	}
	s.items.Set(items)
	return nil
}

// Items returns the catalogue as currently shown, including any purchase
// still in flight.
func (s *Shop) Items() []hubsdk.ShopItem {
	return s.items.Get()
}

// LastError is the message of the most recent failed purchase or load, or
// empty after a success.
func (s *Shop) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Buy purchases one unit of item id. A limited stock shown drops by one right away
// and comes back if the server refuses. After a purchase the session is
// refreshed so the coin balance is current.
func (s *Shop) Buy(ctx context.Context, id int64) (*hubsdk.Purchase, error) {
	if _, err := signedIn(ctx, s.sess); err != nil {
		return nil, err
	}

	var p *hubsdk.Purchase
	err := s.items.Mutate(ctx,
		func(items []hubsdk.ShopItem) []hubsdk.ShopItem {
			items = optimistic.Clone(items)
			for i := range items {
				if items[i].ID == id && items[i].Stock > 0 {
					items[i].Stock--
				}
			}
			return items
		},
		func(ctx context.Context) error {
			var err error
			p, err = s.api.BuyShopItem(ctx, id)
			return err
		},
	)
	if err != nil {
		s.setErr(hubsdk.Message(err))
		return nil, err
	}

	s.setErr("")
	s.sess.Refresh(ctx)
	return p, nil
}

func (s *Shop) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

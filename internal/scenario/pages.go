package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/v0xg/storecheck/internal/dom"
	"go.uber.org/multierr"
)

const activeLanguageClass = "state_active"

// OpenHome navigates to the storefront home page
func (s *Session) OpenHome(ctx context.Context) error {
	return s.page.Navigate(ctx, s.opts.HomeURL)
}

// SelectLanguage clicks the language option labelled lang and waits for it
// to become the active one
func (s *Session) SelectLanguage(ctx context.Context, lang string) error {
	_, err := s.selectByText(ctx, LanguageOption, lang, "more than 1", func(n int) bool { return n > 1 })
	if err != nil {
		return err
	}

	var class string
	active, err := WaitUntil(ctx, s.opts.ElementTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		options, err := s.all(ctx, LanguageOption)
		if err != nil {
			return false, err
		}
		option, err := FindByText(ctx, options, lang)
		if err != nil {
			// re-rendering after the switch
			return false, nil
		}
		class, err = option.Attribute(ctx, "class")
		if err != nil {
			return false, nil
		}
		return strings.Contains(class, activeLanguageClass), nil
	})
	if err != nil {
		return err
	}
	if !active {
		return &AssertionError{
			Check:    fmt.Sprintf("language %s class contains %s", lang, activeLanguageClass),
			Expected: activeLanguageClass,
			Actual:   class,
		}
	}
	return nil
}

// VerifySearchButtonText asserts the visible label of the search button
func (s *Session) VerifySearchButtonText(ctx context.Context, expected string) error {
	button, err := s.findVisible(ctx, SearchButton)
	if err != nil {
		return err
	}
	label, err := s.text(ctx, button, SearchButton.Name)
	if err != nil {
		return err
	}
	return assertEqual(SearchButton.Name+" text", expected, label)
}

// VerifyBasketIsEmpty asserts the basket badge shows no count
func (s *Session) VerifyBasketIsEmpty(ctx context.Context) error {
	badge, err := s.find(ctx, BasketBadge)
	if err != nil {
		return err
	}
	count, err := s.text(ctx, badge, BasketBadge.Name)
	if err != nil {
		return err
	}
	return assertEqual(BasketBadge.Name+" text", "", count)
}

// VerifyUserIsNotLoggedIn asserts an anonymous session has no account link
func (s *Session) VerifyUserIsNotLoggedIn(ctx context.Context) error {
	links, err := s.all(ctx, PrivateOffice)
	if err != nil {
		return err
	}
	return assertEqual(PrivateOffice.Name+" exists", "false", fmt.Sprint(len(links) > 0))
}

// OpenCatalog opens the catalog dropdown
func (s *Session) OpenCatalog(ctx context.Context) error {
	button, err := s.findVisible(ctx, CatalogButton)
	if err != nil {
		return err
	}
	if err := s.click(ctx, button, CatalogButton.Name); err != nil {
		return err
	}
	_, err = s.findVisible(ctx, CatalogMenu)
	return err
}

// SelectCategory picks a top-level catalog entry and waits for its page
func (s *Session) SelectCategory(ctx context.Context, category string) error {
	return s.selectCategoryItem(ctx, CatalogMenu, category)
}

// SelectSubCategory picks an entry of the current category page
func (s *Session) SelectSubCategory(ctx context.Context, subCategory string) error {
	return s.selectCategoryItem(ctx, SubCatalogMenu, subCategory)
}

func (s *Session) selectCategoryItem(ctx context.Context, loc Locator, name string) error {
	if _, err := s.selectByText(ctx, loc, name, "at least 1", func(n int) bool { return n > 0 }); err != nil {
		return err
	}
	return s.checkSectionTitle(ctx, name)
}

// AddFirstGoodToBasket captures the first product of the listing and clicks
// its buy button
func (s *Session) AddFirstGoodToBasket(ctx context.Context) (Product, error) {
	tiles, err := s.waitCount(ctx, ProductTile, "more than 1", func(n int) bool { return n > 1 })
	if err != nil {
		return Product{}, err
	}
	first := tiles[0]

	product, err := s.readProduct(ctx, first, TileName, TilePrice)
	if err != nil {
		return Product{}, err
	}

	buy, err := s.within(ctx, first, TileBasketButton)
	if err != nil {
		return Product{}, err
	}
	if err := s.click(ctx, buy, TileBasketButton.Name); err != nil {
		return Product{}, err
	}
	return product, nil
}

// OpenBasket opens the basket popup
func (s *Session) OpenBasket(ctx context.Context) error {
	button, err := s.findVisible(ctx, BasketButton)
	if err != nil {
		return err
	}
	if err := s.click(ctx, button, BasketButton.Name); err != nil {
		return err
	}
	_, err = s.findVisible(ctx, BasketPopup)
	return err
}

// VerifyBasketItem asserts the basket holds exactly one line and that it
// shows the same name and price as the listing did
func (s *Session) VerifyBasketItem(ctx context.Context, expected Product) error {
	cards, err := s.waitCount(ctx, BasketCard, "exactly 1", func(n int) bool { return n == 1 })
	if err != nil {
		return err
	}

	actual, err := s.readProduct(ctx, cards[0], BasketCardName, BasketCardPrice)
	if err != nil {
		return err
	}

	if err := multierr.Combine(expected.Validate("listing product"), actual.Validate("basket item")); err != nil {
		return err
	}
	return CompareProducts(expected, actual)
}

func (s *Session) readProduct(ctx context.Context, parent dom.Element, name, price Locator) (Product, error) {
	nameEl, err := s.within(ctx, parent, name)
	if err != nil {
		return Product{}, err
	}
	priceEl, err := s.within(ctx, parent, price)
	if err != nil {
		return Product{}, err
	}

	var p Product
	if p.Name, err = s.text(ctx, nameEl, name.Name); err != nil {
		return Product{}, err
	}
	if p.Price, err = s.text(ctx, priceEl, price.Name); err != nil {
		return Product{}, err
	}
	return p, nil
}

package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/v0xg/storecheck/internal/dom"
)

// fakeElement is an in-memory dom.Element
type fakeElement struct {
	text     string
	attrs    map[string]string
	hidden   bool
	children map[string][]*fakeElement
	onClick  func()
	textErr  error
	textFn   func() string

	clicks, hovers, scrolls int
}

func el(text string) *fakeElement {
	return &fakeElement{text: text, attrs: map[string]string{}, children: map[string][]*fakeElement{}}
}

func (e *fakeElement) Elements(_ context.Context, xpath string) ([]dom.Element, error) {
	return toDOM(e.children[xpath]), nil
}

func (e *fakeElement) Text(context.Context) (string, error) {
	if e.textFn != nil {
		return e.textFn(), e.textErr
	}
	return e.text, e.textErr
}

func (e *fakeElement) Attribute(_ context.Context, name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) Visible(context.Context) (bool, error) { return !e.hidden, nil }

func (e *fakeElement) ScrollIntoView(context.Context) error {
	e.scrolls++
	return nil
}

func (e *fakeElement) Hover(context.Context) error {
	e.hovers++
	return nil
}

func (e *fakeElement) Click(context.Context) error {
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Center(context.Context) (int, int, error) { return 10, 20, nil }

func toDOM(els []*fakeElement) []dom.Element {
	out := make([]dom.Element, 0, len(els))
	for _, e := range els {
		out = append(out, e)
	}
	return out
}

// fakePage serves elements from a map keyed by XPath
type fakePage struct {
	els        map[string][]*fakeElement
	onNavigate func()
	visited    []string
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.visited = append(p.visited, url)
	if p.onNavigate != nil {
		p.onNavigate()
	}
	return nil
}

func (p *fakePage) Elements(_ context.Context, xpath string) ([]dom.Element, error) {
	return toDOM(p.els[xpath]), nil
}

func (p *fakePage) Screenshot(context.Context) ([]byte, error) {
	return nil, errors.New("no screenshots in fakes")
}

func (p *fakePage) Close() error { return nil }

func (p *fakePage) set(loc Locator, els ...*fakeElement) {
	p.els[loc.XPath] = els
}

func (p *fakePage) first(loc Locator) *fakeElement {
	if els := p.els[loc.XPath]; len(els) > 0 {
		return els[0]
	}
	return nil
}

// fakeStore mimics the storefront closely enough for both scenarios
type fakeStore struct {
	*fakePage

	searchLabel   string
	loggedIn      bool
	subcategories []string
	tiles         int
	basketItem    *Product // what the basket shows instead of the added tile
	basketLines   int
	titleDelay    int // polls before the title follows a navigation
	titleFrozen   bool

	badge *fakeElement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		fakePage:      &fakePage{els: map[string][]*fakeElement{}},
		searchLabel:   SearchButtonTextUA,
		subcategories: []string{"Меблі", MattressesSubCategory, "Посуд"},
		tiles:         3,
		basketLines:   1,
	}
}

// open wires navigation to render the home page
func (s *fakeStore) open() *fakeStore {
	s.onNavigate = s.home
	return s
}

func (s *fakeStore) home() {
	ru := el("RU")
	ru.attrs["class"] = "lang-header state_active"
	ua := el(" UA ")
	ua.attrs["class"] = "lang-header"
	ua.onClick = func() {
		ru.attrs["class"] = "lang-header"
		ua.attrs["class"] = "lang-header state_active"
	}
	s.set(LanguageOption, ru, ua)

	s.set(SearchButton, el(" "+s.searchLabel+" "))
	badge := el("")
	s.set(BasketBadge, badge)
	if s.loggedIn {
		s.set(PrivateOffice, el("Кабінет"))
	}

	s.set(SectionTitle, el("Інтернет-магазин"))

	laptops := el("Ноутбуки та комп’ютери")
	laptops.hidden = true
	house := el(GoodsForHouseCategory)
	house.hidden = true
	house.onClick = func() {
		var subs []*fakeElement
		for _, name := range s.subcategories {
			sub := el(name)
			sub.onClick = func() { s.openListing(name) }
			subs = append(subs, sub)
		}
		s.set(SubCatalogMenu, subs...)
		s.navigateTitle(GoodsForHouseCategory)
	}

	catalog := el("Каталог")
	catalog.onClick = func() {
		laptops.hidden = false
		house.hidden = false
	}
	s.set(CatalogButton, catalog)
	s.set(CatalogMenu, laptops, house)

	popup := el("")
	popup.hidden = true
	s.set(BasketPopup, popup)
	basket := el("")
	basket.onClick = func() { popup.hidden = false }
	s.set(BasketButton, basket)
	s.set(BasketCard)

	s.badge = badge
}

func (s *fakeStore) openListing(name string) {
	var tiles []*fakeElement
	for i := 0; i < s.tiles; i++ {
		p := Product{Name: "Матрац Sleep&Fly " + string(rune('A'+i)), Price: "4 999₴"}
		tile := el(p.Name)
		tile.children[TileName.XPath] = []*fakeElement{el(" " + p.Name + " ")}
		tile.children[TilePrice.XPath] = []*fakeElement{el(p.Price)}
		buy := el("")
		buy.onClick = func() { s.addToBasket(p) }
		tile.children[TileBasketButton.XPath] = []*fakeElement{buy}
		tiles = append(tiles, tile)
	}
	s.set(ProductTile, tiles...)
	s.navigateTitle(name)
}

func (s *fakeStore) addToBasket(p Product) {
	if s.basketItem != nil {
		p = *s.basketItem
	}
	var cards []*fakeElement
	for i := 0; i < s.basketLines; i++ {
		card := el("")
		card.children[BasketCardName.XPath] = []*fakeElement{el(p.Name)}
		card.children[BasketCardPrice.XPath] = []*fakeElement{el(p.Price)}
		cards = append(cards, card)
	}
	s.set(BasketCard, cards...)
	s.badge.text = "1"
}

// navigateTitle swaps the section title, optionally after a few reads
func (s *fakeStore) navigateTitle(name string) {
	if s.titleFrozen {
		return
	}
	title := s.first(SectionTitle)
	if s.titleDelay == 0 {
		title.text = name
		return
	}
	reads := 0
	title.textFn = func() string {
		reads++
		if reads <= s.titleDelay {
			return title.text
		}
		title.text, title.textFn = name, nil
		return name
	}
}

func testOptions() Options {
	return Options{
		HomeURL:         "https://store.test/ua/",
		PageLoadTimeout: 150 * time.Millisecond,
		ElementTimeout:  100 * time.Millisecond,
		PollInterval:    5 * time.Millisecond,
	}
}

// Package scenario holds the storefront checks: the locator set, the page
// interactions built on it, and the two scenarios composed from them.
package scenario

import (
	"context"

	"github.com/v0xg/storecheck/internal/executor"
)

// Literals the scenarios check against
const (
	LanguageUA            = "UA"
	SearchButtonTextUA    = "Знайти"
	GoodsForHouseCategory = "Товари для дому"
	MattressesSubCategory = "Матраци"
)

// Scenario is an independently runnable check
type Scenario struct {
	Name        string
	Description string
	Steps       func(s *Session) []executor.Step
}

var BasicPageView = Scenario{
	Name:        "basic-page-view",
	Description: "Check default page layout",
	Steps: func(s *Session) []executor.Step {
		return []executor.Step{
			{Name: "open home page", Do: s.OpenHome},
			{Name: "select language " + LanguageUA, Do: func(ctx context.Context) error {
				return s.SelectLanguage(ctx, LanguageUA)
			}},
			{Name: "verify search button text", Do: func(ctx context.Context) error {
				return s.VerifySearchButtonText(ctx, SearchButtonTextUA)
			}},
			{Name: "verify basket is empty", Do: s.VerifyBasketIsEmpty},
			{Name: "verify user is not logged in", Do: s.VerifyUserIsNotLoggedIn},
		}
	},
}

var BasicFlow = Scenario{
	Name:        "basic-flow",
	Description: "Check user can add any good to basket",
	Steps: func(s *Session) []executor.Step {
		var added Product
		return []executor.Step{
			{Name: "open home page", Do: s.OpenHome},
			{Name: "select language " + LanguageUA, Do: func(ctx context.Context) error {
				return s.SelectLanguage(ctx, LanguageUA)
			}},
			{Name: "open catalog", Do: s.OpenCatalog},
			{Name: "select category " + GoodsForHouseCategory, Do: func(ctx context.Context) error {
				return s.SelectCategory(ctx, GoodsForHouseCategory)
			}},
			{Name: "select subcategory " + MattressesSubCategory, Do: func(ctx context.Context) error {
				return s.SelectSubCategory(ctx, MattressesSubCategory)
			}},
			{Name: "add first good to basket", Do: func(ctx context.Context) error {
				var err error
				added, err = s.AddFirstGoodToBasket(ctx)
				return err
			}},
			{Name: "open basket", Do: s.OpenBasket},
			{Name: "verify correct good is added", Do: func(ctx context.Context) error {
				return s.VerifyBasketItem(ctx, added)
			}},
		}
	},
}

// All returns every scenario in run order
func All() []Scenario {
	return []Scenario{BasicPageView, BasicFlow}
}

// Lookup finds a scenario by name
func Lookup(name string) (Scenario, bool) {
	for _, sc := range All() {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

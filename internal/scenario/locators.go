package scenario

// Locator names a UI element and the XPath that selects it. Names show up in
// error messages.
type Locator struct {
	Name  string
	XPath string
}

const basketPath = "//button[@rzopencart]"

var (
	LanguageOption = Locator{"language option", "//li[contains(@class,'lang-header')]"}
	BasketButton   = Locator{"basket button", basketPath}
	BasketBadge    = Locator{"basket badge", basketPath + "/rz-icon-badge"}
	PrivateOffice  = Locator{"private office link", "//rz-user/a"}
	SearchButton   = Locator{"search button", "//form[contains(@class,'search-form')]/button[contains(@class,'search-form')]"}
	CatalogButton  = Locator{"catalog button", "//button[contains(@class,'icon menu')]"}
	CatalogMenu    = Locator{"catalog menu item", "//ul[contains(@class,'menu-categories')]/li"}
	SubCatalogMenu = Locator{"subcategory item", "//rz-list-tile//li/a"}
	SectionTitle   = Locator{"section title", "//h1"}

	ProductTile      = Locator{"product tile", "//app-goods-tile-default"}
	TileName         = Locator{"product name", ".//a[contains(@class,'goods-tile__heading')]"}
	TilePrice        = Locator{"product price", ".//span[contains(@class,'price-value')]"}
	TileBasketButton = Locator{"buy button", ".//button[contains(@class,'buy-button')]"}

	BasketPopup     = Locator{"basket popup", "//rz-shopping-cart"}
	BasketCard      = Locator{"basket item", "//rz-cart-product"}
	BasketCardName  = Locator{"basket item name", ".//a[@data-testid='title']"}
	BasketCardPrice = Locator{"basket item price", ".//p[contains(@class,'product__price')]"}
)

// Package keyboard builds the inline menus shown under every bot reply.
// Builders are pure: callers supply well-formed product lists.
package keyboard

import (
	"fmt"
	"strconv"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/models"
)

// Button is one labeled action. Action is the opaque callback token the
// transport echoes back when the button is pressed.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Menu is an ordered sequence of button rows.
type Menu [][]Button

// MainMenu is the four fixed storefront sections.
func MainMenu() Menu {
	return Menu{
		{{Label: "🛍 Products", Action: "products"}},
		{{Label: "👤 Profile", Action: "profile"}},
		{{Label: "📦 My Orders", Action: "my_orders"}},
		{{Label: "⭐ Reviews", Action: "reviews"}},
	}
}

// ProductsMenu lists one button per available product plus a back row.
func ProductsMenu(products []models.Product) Menu {
	menu := make(Menu, 0, len(products)+1)
	for _, p := range products {
		menu = append(menu, []Button{{
			Label:  fmt.Sprintf("📦 %s - %s LTC", p.Title, FormatPrice(p.PriceLTC)),
			Action: fmt.Sprintf("product_%d", p.ID),
		}})
	}
	menu = append(menu, []Button{{Label: "◀️ Back", Action: "back"}})
	return menu
}

// ProductDetailMenu offers to buy the product or return to the catalog.
func ProductDetailMenu(productID int64) Menu {
	return Menu{
		{{Label: "✅ Buy", Action: fmt.Sprintf("buy_%d", productID)}},
		{{Label: "◀️ Back", Action: "products"}},
	}
}

// ProfileMenu shows the balance and promo actions under the profile view.
func ProfileMenu() Menu {
	return Menu{
		{{Label: "💳 Top Up Balance", Action: "add_balance"}},
		{{Label: "🎁 Enter Promo Code", Action: "enter_promo"}},
		{{Label: "◀️ Back", Action: "main_menu"}},
	}
}

// AdminMenu is the admin panel action set.
func AdminMenu() Menu {
	return Menu{
		{{Label: "➕ Add Product", Action: "admin_add"}},
		{{Label: "📦 Manage Products", Action: "admin_products"}},
		{{Label: "📊 Statistics", Action: "admin_stats"}},
		{{Label: "🏠 Main Menu", Action: "main_menu"}},
	}
}

// BackToMain is the generic back-stop row.
func BackToMain() Menu {
	return Menu{
		{{Label: "🏠 Main Menu", Action: "main_menu"}},
	}
}

// FormatPrice renders an LTC amount with the fewest digits that round-trip,
// so 0.5 stays "0.5" rather than "0.500000".
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

package shop

import (
	"strconv"
	"strings"
)

// ActionKind is the closed set of menu actions. Opaque callback tokens are
// decoded into an Action at the transport boundary so the router never
// string-matches twice.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionMainMenu
	ActionProducts
	ActionProfile
	ActionMyOrders
	ActionReviews
	ActionBack
	ActionProductDetail
	ActionBuy
	ActionAdminAdd
	ActionAdminProducts
	ActionAdminStats
	ActionAddBalance
	ActionEnterPromo
)

// Action is a decoded callback token. ProductID is set only for the
// product detail and buy kinds.
type Action struct {
	Kind      ActionKind
	ProductID int64
}

// ParseAction decodes a callback token. Exact tokens are matched first,
// then the two id-carrying prefixes. Anything else is ActionUnknown.
func ParseAction(token string) Action {
	switch token {
	case "main_menu":
		return Action{Kind: ActionMainMenu}
	case "products":
		return Action{Kind: ActionProducts}
	case "profile":
		return Action{Kind: ActionProfile}
	case "my_orders":
		return Action{Kind: ActionMyOrders}
	case "reviews":
		return Action{Kind: ActionReviews}
	case "back":
		return Action{Kind: ActionBack}
	case "admin_add":
		return Action{Kind: ActionAdminAdd}
	case "admin_products":
		return Action{Kind: ActionAdminProducts}
	case "admin_stats":
		return Action{Kind: ActionAdminStats}
	case "add_balance":
		return Action{Kind: ActionAddBalance}
	case "enter_promo":
		return Action{Kind: ActionEnterPromo}
	}

	if rest, ok := strings.CutPrefix(token, "product_"); ok {
		if id, err := strconv.ParseInt(rest, 10, 64); err == nil {
			return Action{Kind: ActionProductDetail, ProductID: id}
		}
	}
	if rest, ok := strings.CutPrefix(token, "buy_"); ok {
		if id, err := strconv.ParseInt(rest, 10, 64); err == nil {
			return Action{Kind: ActionBuy, ProductID: id}
		}
	}

	return Action{Kind: ActionUnknown}
}

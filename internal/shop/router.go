package shop

import (
	"fmt"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/logger"
)

// Router dispatches decoded inbound events to exactly one handler and
// always yields exactly one rendering. Handler errors are logged and
// collapse into the generic failure reply so no fault reaches the user.
type Router struct {
	Service *Service
	Log     *logger.Logger
}

func NewRouter(service *Service, log *logger.Logger) *Router {
	return &Router{Service: service, Log: log}
}

// Command handles a slash command. Only /start and /admin exist; anything
// else falls back to the main menu.
func (r *Router) Command(name string, v Visitor) Rendering {
	r.Log.LogUpdate("command", v.ID, "/"+name)

	switch name {
	case "start":
		return r.render(r.Service.Start(v))
	case "admin":
		return r.Service.Admin(v.ID)
	default:
		r.Log.Warn("ROUTER", fmt.Sprintf("unknown command /%s from user %d", name, v.ID))
		return r.render(r.Service.Start(v))
	}
}

// Callback handles a button press by its decoded action.
func (r *Router) Callback(token string, v Visitor) Rendering {
	r.Log.LogUpdate("callback", v.ID, token)

	action := ParseAction(token)
	switch action.Kind {
	case ActionMainMenu, ActionBack:
		return r.render(r.Service.Start(v))
	case ActionProducts:
		return r.render(r.Service.Products())
	case ActionProfile:
		return r.render(r.Service.Profile(v.ID))
	case ActionMyOrders:
		return r.render(r.Service.MyOrders(v.ID))
	case ActionReviews:
		return r.Service.Reviews()
	case ActionProductDetail:
		return r.render(r.Service.ProductDetail(action.ProductID))
	case ActionBuy:
		return r.render(r.Service.Buy(v.ID, action.ProductID))
	case ActionAdminStats:
		if !r.Service.IsAdmin(v.ID) {
			return r.Service.Admin(v.ID)
		}
		return r.render(r.Service.AdminStats())
	case ActionAdminAdd, ActionAdminProducts:
		if !r.Service.IsAdmin(v.ID) {
			return r.Service.Admin(v.ID)
		}
		return r.Service.UnderDevelopment()
	case ActionAddBalance, ActionEnterPromo:
		return r.Service.UnderDevelopment()
	default:
		r.Log.Warn("ROUTER", fmt.Sprintf("unrecognized callback token %q from user %d", token, v.ID))
		return r.render(r.Service.Start(v))
	}
}

func (r *Router) render(rendering Rendering, err error) Rendering {
	if err != nil {
		r.Log.Error("ROUTER", err.Error())
		return Failure()
	}
	return rendering
}

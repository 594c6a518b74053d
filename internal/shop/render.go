package shop

import (
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/shop/keyboard"
)

// Rendering is the single outbound reply every handled event ends with:
// a Markdown text body, an inline menu, and an optional QR code image
// attached to order confirmations.
type Rendering struct {
	Text string
	Menu keyboard.Menu
	QR   []byte
}

// Visitor identifies the user behind an inbound event.
type Visitor struct {
	ID        int64
	Username  string
	FirstName string
	FullName  string
}

// Failure is the generic error reply. Every handler path that cannot
// complete still terminates in this rendering, never in a raw error.
func Failure() Rendering {
	return Rendering{
		Text: "⚠️ Something went wrong. Please try again later.",
		Menu: keyboard.BackToMain(),
	}
}

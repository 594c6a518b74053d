package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/logger"
)

// pollRetryDelay spaces out retries after a failed getUpdates round.
const pollRetryDelay = 3 * time.Second

// Poller runs the getUpdates long-poll loop, the bot's default delivery
// mode.
type Poller struct {
	Client  *Client
	Bot     *Bot
	Log     *logger.Logger
	Timeout time.Duration
}

// Run polls until ctx is cancelled. Each update is handled inline; the
// offset advances past every update that was delivered, handled or not.
func (p *Poller) Run(ctx context.Context) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := p.Client.GetUpdates(offset, p.Timeout)
		if err != nil {
			p.Log.Error("TELEGRAM", fmt.Sprintf("getUpdates: %v", err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			p.Bot.HandleUpdate(update)
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
		}
	}
}

package telegram

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// WebhookHandler accepts Bot API webhook posts at /webhook/{secret}. The
// secret in the path must match the configured one; Telegram is told the
// full URL via setWebhook, so nothing else should know it. The update is
// acknowledged with 200 even when handling fails internally, so the Bot
// API does not redeliver it.
func (b *Bot) WebhookHandler(secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "secret") != secret {
			http.NotFound(w, r)
			return
		}

		var update Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update payload", http.StatusBadRequest)
			return
		}

		b.HandleUpdate(update)
		w.WriteHeader(http.StatusOK)
	}
}

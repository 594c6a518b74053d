package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a thin Bot API HTTP client. All replies use Markdown parse
// mode, matching the renderings built by the shop package.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string

	token  string
	client *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		token:   token,
		// Longer than the getUpdates long-poll window.
		client: &http.Client{Timeout: 50 * time.Second},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: encode: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.BaseURL, c.token, method)
	resp, err := c.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("telegram %s: decode: %w", method, err)
	}
	if !api.OK {
		return fmt.Errorf("telegram %s: %s", method, api.Description)
	}
	if result != nil {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(offset int64, timeout time.Duration) ([]Update, error) {
	payload := map[string]interface{}{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call("getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendMessage(chatID int64, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call("sendMessage", payload, nil)
}

func (c *Client) EditMessageText(chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call("editMessageText", payload, nil)
}

// SendPhoto uploads a PNG with a Markdown caption.
func (c *Client) SendPhoto(chatID int64, caption string, markup *InlineKeyboardMarkup, photo []byte) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	if err := writer.WriteField("parse_mode", "Markdown"); err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	if markup != nil {
		markupJSON, err := json.Marshal(markup)
		if err != nil {
			return fmt.Errorf("telegram sendPhoto: encode markup: %w", err)
		}
		if err := writer.WriteField("reply_markup", string(markupJSON)); err != nil {
			return fmt.Errorf("telegram sendPhoto: %w", err)
		}
	}

	part, err := writer.CreateFormFile("photo", "payment.png")
	if err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.BaseURL, c.token)
	resp, err := c.client.Post(url, writer.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("telegram sendPhoto: %w", err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("telegram sendPhoto: decode: %w", err)
	}
	if !api.OK {
		return fmt.Errorf("telegram sendPhoto: %s", api.Description)
	}
	return nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing its spinner.
func (c *Client) AnswerCallbackQuery(callbackID string) error {
	return c.call("answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	}, nil)
}

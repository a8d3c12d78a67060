package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const timeout = 10 * time.Second

// apiBaseURL is a variable so tests can point the client at a local server
var apiBaseURL = "https://api.telegram.org/bot"

// Client represents a Telegram Bot API client bound to one chat
type Client struct {
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	return &Client{
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// InlineKeyboardButton is one button of an inline keyboard
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboardMarkup is the reply_markup of a message with buttons
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// apiResponse is the envelope of every Bot API response
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s%s/%s", apiBaseURL, c.botToken, method)
}

// call posts a JSON payload to a Bot API method and checks the response envelope
func (c *Client) call(method string, payload map[string]interface{}) (json.RawMessage, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.methodURL(method), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if !result.OK {
		return nil, fmt.Errorf("telegram API error: %s", result.Description)
	}

	return result.Result, nil
}

// SendMessage sends a text message to the configured chat
func (c *Client) SendMessage(text string) error {
	return c.SendMessageWithKeyboard(text, nil)
}

// SendMessageWithKeyboard sends a text message with optional inline buttons
func (c *Client) SendMessageWithKeyboard(text string, keyboard *InlineKeyboardMarkup) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}

	_, err := c.call("sendMessage", payload)
	return err
}

// EditMessageText replaces the text (and keyboard) of a message the bot sent earlier
func (c *Client) EditMessageText(chatID string, messageID int, text string, keyboard *InlineKeyboardMarkup) error {
	if chatID == "" {
		return fmt.Errorf("chat ID is required")
	}
	if messageID == 0 {
		return fmt.Errorf("message ID is required")
	}
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"message_id":               messageID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}

	_, err := c.call("editMessageText", payload)
	return err
}

// AnswerCallbackQuery acknowledges a button press, optionally with a toast text
func (c *Client) AnswerCallbackQuery(callbackID string, text string, showAlert bool) error {
	if callbackID == "" {
		return fmt.Errorf("callback ID is required")
	}

	payload := map[string]interface{}{
		"callback_query_id": callbackID,
	}
	if text != "" {
		payload["text"] = text
		payload["show_alert"] = showAlert
	}

	_, err := c.call("answerCallbackQuery", payload)
	return err
}

// SendDocument uploads a file to the configured chat
func (c *Client) SendDocument(filename string, data []byte, caption string) error {
	if filename == "" {
		return fmt.Errorf("filename is required")
	}
	if len(data) == 0 {
		return fmt.Errorf("document data is required")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("chat_id", c.chatID); err != nil {
		return fmt.Errorf("writing form: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("writing form: %w", err)
		}
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.methodURL("sendDocument"), &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	_, err = c.do(req)
	return err
}

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// withServer points apiBaseURL at a test server for the duration of the test
func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	originalURL := apiBaseURL
	apiBaseURL = server.URL + "/bot"
	t.Cleanup(func() {
		apiBaseURL = originalURL
		server.Close()
	})
}

func okResponse(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{ // nolint:errcheck
		"ok":     true,
		"result": result,
	})
}

func testClient() *Client {
	return &Client{
		botToken:   "test-token",
		chatID:     "12345",
		httpClient: &http.Client{},
	}
}

// TestSendMessage_Success tests successful message sending
func TestSendMessage_Success(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload) // nolint:errcheck
		if payload["chat_id"] != "12345" {
			t.Errorf("chat_id = %v, want 12345", payload["chat_id"])
		}
		if payload["parse_mode"] != "HTML" {
			t.Errorf("parse_mode = %v, want HTML", payload["parse_mode"])
		}
		if _, ok := payload["reply_markup"]; ok {
			t.Error("plain message should not carry reply_markup")
		}

		okResponse(w, map[string]interface{}{"message_id": 123})
	})

	if err := testClient().SendMessage("Test message"); err != nil {
		t.Errorf("SendMessage() unexpected error: %v", err)
	}
}

// TestSendMessage_APIError tests API error handling
func TestSendMessage_APIError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ // nolint:errcheck
			"ok":          false,
			"description": "Bad Request: chat not found",
		})
	})

	err := testClient().SendMessage("Test message")
	if err == nil {
		t.Fatal("SendMessage() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error = %v, should contain API description", err)
	}
}

// TestSendMessage_HTTPError tests non-200 handling
func TestSendMessage_HTTPError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error")) // nolint:errcheck
	})

	if err := testClient().SendMessage("Test message"); err == nil {
		t.Error("SendMessage() expected error, got nil")
	}
}

func TestSendMessageWithKeyboard_Success(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ReplyMarkup InlineKeyboardMarkup `json:"reply_markup"`
		}
		json.NewDecoder(r.Body).Decode(&payload) // nolint:errcheck

		if len(payload.ReplyMarkup.InlineKeyboard) != 2 {
			t.Errorf("keyboard rows = %d, want 2", len(payload.ReplyMarkup.InlineKeyboard))
		}
		okResponse(w, map[string]interface{}{"message_id": 1})
	})

	if err := testClient().SendMessageWithKeyboard(PromptChoose, ChoiceKeyboard([]string{"A1", "Plenum"})); err != nil {
		t.Errorf("SendMessageWithKeyboard() unexpected error: %v", err)
	}
}

func TestAnswerCallbackQuery_Success(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload) // nolint:errcheck
		if payload["callback_query_id"] != "cb-1" {
			t.Errorf("callback_query_id = %v", payload["callback_query_id"])
		}
		if _, ok := payload["text"]; ok {
			t.Error("empty answer should not carry text")
		}
		okResponse(w, true)
	})

	if err := testClient().AnswerCallbackQuery("cb-1", "", false); err != nil {
		t.Errorf("AnswerCallbackQuery() unexpected error: %v", err)
	}
}

func TestAnswerCallbackQuery_WithEmptyID(t *testing.T) {
	if err := testClient().AnswerCallbackQuery("", "x", false); err == nil {
		t.Error("AnswerCallbackQuery() expected error for empty ID")
	}
}

func TestEditMessageText_Success(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/editMessageText" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload) // nolint:errcheck
		if payload["message_id"] != float64(999) {
			t.Errorf("message_id = %v, want 999", payload["message_id"])
		}
		okResponse(w, true)
	})

	if err := testClient().EditMessageText("12345", 999, "Sessions um 10:00", nil); err != nil {
		t.Errorf("EditMessageText() unexpected error: %v", err)
	}
}

func TestEditMessageText_Validation(t *testing.T) {
	tests := []struct {
		name      string
		chatID    string
		messageID int
		text      string
	}{
		{"empty chat ID", "", 1, "text"},
		{"zero message ID", "12345", 0, "text"},
		{"empty text", "12345", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := testClient().EditMessageText(tt.chatID, tt.messageID, tt.text, nil); err == nil {
				t.Error("EditMessageText() expected error, got nil")
			}
		})
	}
}

func TestSendDocument_Success(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Expected multipart/form-data, got %s", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error: %v", err)
		}
		if r.FormValue("chat_id") != "12345" {
			t.Errorf("chat_id = %q", r.FormValue("chat_id"))
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatalf("FormFile() error: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "plan.ics" || string(data) != "BEGIN:VCALENDAR" {
			t.Errorf("document = %s %q", header.Filename, data)
		}
		okResponse(w, map[string]interface{}{"message_id": 5})
	})

	if err := testClient().SendDocument("plan.ics", []byte("BEGIN:VCALENDAR"), "Sessionplan"); err != nil {
		t.Errorf("SendDocument() unexpected error: %v", err)
	}
}

func TestSendDocument_Validation(t *testing.T) {
	if err := testClient().SendDocument("plan.ics", nil, ""); err == nil {
		t.Error("SendDocument() expected error for empty data")
	}
	if err := testClient().SendDocument("", []byte("x"), ""); err == nil {
		t.Error("SendDocument() expected error for empty filename")
	}
}

func TestGetUpdates(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/getUpdates" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("offset") != "42" {
			t.Errorf("offset = %q, want 42", r.URL.Query().Get("offset"))
		}
		if r.URL.Query().Get("timeout") != "1" {
			t.Errorf("timeout = %q, want 1", r.URL.Query().Get("timeout"))
		}
		okResponse(w, []map[string]interface{}{
			{
				"update_id": 42,
				"message": map[string]interface{}{
					"message_id": 7,
					"chat":       map[string]interface{}{"id": 789, "type": "private"},
					"text":       "jetzt",
				},
			},
			{
				"update_id": 43,
				"callback_query": map[string]interface{}{
					"id":   "cb",
					"data": "10:00",
				},
			},
		})
	})

	updates, err := GetUpdates(context.Background(), "test-token", 42, 1)
	if err != nil {
		t.Fatalf("GetUpdates() error: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}
	if updates[0].Message == nil || updates[0].Message.Text != "jetzt" {
		t.Errorf("first update = %+v", updates[0])
	}
	if updates[0].Message.Chat.ChatIDString() != "789" {
		t.Errorf("ChatIDString() = %q", updates[0].Message.Chat.ChatIDString())
	}
	if updates[1].CallbackQuery == nil || updates[1].CallbackQuery.Data != "10:00" {
		t.Errorf("second update = %+v", updates[1])
	}
}

func TestGetUpdates_Errors(t *testing.T) {
	if _, err := GetUpdates(context.Background(), "", 0, 0); err == nil {
		t.Error("GetUpdates() expected error for empty token")
	}

	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "Unauthorized"}`)) // nolint:errcheck
	})
	if _, err := GetUpdates(context.Background(), "test-token", 0, 0); err == nil {
		t.Error("GetUpdates() expected error for ok=false")
	}
}

func TestGetUpdates_Cancelled(t *testing.T) {
	release := make(chan struct{})
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		okResponse(w, []interface{}{})
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := GetUpdates(ctx, "test-token", 0, 30)
	if err == nil {
		t.Fatal("GetUpdates() expected error after cancel")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetUpdates() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("GetUpdates() returned after %v, should stop promptly", elapsed)
	}
}

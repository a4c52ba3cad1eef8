package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/roamly/roamly-backend/internal/models"
)

func newChatApp(f *handlerFixture, userID uint) *fiber.App {
	handler := NewChatHandler(f.chat, 4000)

	app := fiber.New()
	chat := app.Group("/api/chat", fakeAuth(userID))
	chat.Post("/send", handler.SendMessage)
	chat.Get("/history/:userId/:otherUserId", handler.GetHistory)
	chat.Put("/read/:userId/:otherUserId", handler.MarkRead)
	chat.Get("/unread/:userId", handler.GetUnreadCount)
	chat.Delete("/message/:messageId", handler.DeleteMessage)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (*fiber.Map, int) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded fiber.Map
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return &decoded, resp.StatusCode
}

func TestSendMessageHTTP(t *testing.T) {
	f := newHandlerFixture()
	f.users.users[2] = &models.User{ID: 2, Name: "bob"}
	app := newChatApp(f, 1)

	body, status := doJSON(t, app, "POST", "/api/chat/send", map[string]interface{}{
		"receiver_id": 2,
		"content":     "  hello bob  ",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	if (*body)["content"] != "hello bob" {
		t.Errorf("content not trimmed: %v", (*body)["content"])
	}
	if f.deliverer.count != 1 {
		t.Errorf("expected 1 delivery, got %d", f.deliverer.count)
	}
}

func TestSendMessageHTTPMissingContent(t *testing.T) {
	f := newHandlerFixture()
	f.users.users[2] = &models.User{ID: 2}
	app := newChatApp(f, 1)

	_, status := doJSON(t, app, "POST", "/api/chat/send", map[string]interface{}{
		"receiver_id": 2,
		"content":     "   ",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestSendMessageHTTPUnknownReceiver(t *testing.T) {
	f := newHandlerFixture()
	app := newChatApp(f, 1)

	_, status := doJSON(t, app, "POST", "/api/chat/send", map[string]interface{}{
		"receiver_id": 99,
		"content":     "hi",
	})
	if status != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestGetHistoryHTTP(t *testing.T) {
	f := newHandlerFixture()
	receiverID := uint(1)
	for i := 1; i <= 3; i++ {
		f.messages.add(&models.Message{
			ID:         uint(i),
			ClientID:   fmt.Sprintf("c%d", i),
			SenderID:   2,
			ReceiverID: &receiverID,
			Content:    "hi",
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Second),
		})
	}
	app := newChatApp(f, 1)

	req := httptest.NewRequest("GET", "/api/chat/history/1/2", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var page []models.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(page))
	}

	// The fetch marks the counterpart's messages read.
	count, _ := f.messages.CountUnread(1)
	if count != 0 {
		t.Errorf("expected 0 unread after history fetch, got %d", count)
	}
}

func TestGetHistoryHTTPForeignConversation(t *testing.T) {
	f := newHandlerFixture()
	app := newChatApp(f, 1)

	req := httptest.NewRequest("GET", "/api/chat/history/2/3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403 for someone else's conversation, got %d", resp.StatusCode)
	}
}

func TestGetHistoryHTTPBadCursor(t *testing.T) {
	f := newHandlerFixture()
	app := newChatApp(f, 1)

	req := httptest.NewRequest("GET", "/api/chat/history/1/2?before=not-a-time", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for a bad cursor, got %d", resp.StatusCode)
	}
}

func TestMarkReadHTTP(t *testing.T) {
	f := newHandlerFixture()
	receiverID := uint(1)
	f.messages.add(&models.Message{ID: 1, ClientID: "c1", SenderID: 2, ReceiverID: &receiverID, Content: "hi"})
	app := newChatApp(f, 1)

	body, status := doJSON(t, app, "PUT", "/api/chat/read/1/2", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if (*body)["updated_count"] != float64(1) {
		t.Errorf("expected updated_count 1, got %v", (*body)["updated_count"])
	}

	body, _ = doJSON(t, app, "PUT", "/api/chat/read/1/2", nil)
	if (*body)["updated_count"] != float64(0) {
		t.Errorf("second call should report 0, got %v", (*body)["updated_count"])
	}
}

func TestGetUnreadCountHTTP(t *testing.T) {
	f := newHandlerFixture()
	receiverID := uint(1)
	f.messages.add(&models.Message{ID: 1, ClientID: "c1", SenderID: 2, ReceiverID: &receiverID, Content: "hi"})
	f.messages.add(&models.Message{ID: 2, ClientID: "c2", SenderID: 3, ReceiverID: &receiverID, Content: "yo"})
	app := newChatApp(f, 1)

	body, status := doJSON(t, app, "GET", "/api/chat/unread/1", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if (*body)["unread_count"] != float64(2) {
		t.Errorf("expected unread_count 2, got %v", (*body)["unread_count"])
	}
}

func TestDeleteMessageHTTPNotSender(t *testing.T) {
	f := newHandlerFixture()
	receiverID := uint(1)
	f.messages.add(&models.Message{ID: 1, ClientID: "c1", SenderID: 2, ReceiverID: &receiverID, Content: "hi"})
	app := newChatApp(f, 1)

	_, status := doJSON(t, app, "DELETE", "/api/chat/message/1", nil)
	if status != fiber.StatusForbidden {
		t.Errorf("expected 403, got %d", status)
	}
}

package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"matsuri/models"
)

func TestFormatDayMergesRanges(t *testing.T) {
	day := []models.TimeRange{
		{StartTime: 13 * 60, EndTime: 15 * 60},
		{StartTime: 9 * 60, EndTime: 12 * 60},
	}
	if got := formatDay(day); got != "09:00 - 15:00" {
		t.Fatalf("formatDay = %q", got)
	}
	if got := formatDay(nil); got != "なし" {
		t.Fatalf("formatDay(empty) = %q", got)
	}
}

func TestSendWebhookRetriesOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := New(server.URL, "https://example.test")
	if err := d.sendWebhook(context.Background(), map[string]any{"content": "hi"}); err != nil {
		t.Fatalf("sendWebhook: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestSendWebhookHardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	d := New(server.URL, "https://example.test")
	if err := d.sendWebhook(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error on 400")
	}
}

func TestSendWebhookDisabled(t *testing.T) {
	d := New("", "https://example.test")
	if err := d.SendDeletePlan(context.Background(), "p1"); err != nil {
		t.Fatalf("disabled webhook should no-op: %v", err)
	}
}

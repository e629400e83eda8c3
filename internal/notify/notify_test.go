package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingSink struct {
	name string
	got  []string
	err  error
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Send(_ context.Context, text string) error {
	r.got = append(r.got, text)
	return r.err
}

func TestMultiFanout(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	m := NewMulti(a, nil, b)

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	if err := m.Send(context.Background(), "run finished"); err != nil {
		t.Errorf("Send() error = %v, want nil", err)
	}
	if len(a.got) != 1 || a.got[0] != "run finished" {
		t.Errorf("sink a got %v", a.got)
	}
	if len(b.got) != 1 {
		t.Errorf("sink b got %v", b.got)
	}
}

func TestMultiSwallowsSinkFailure(t *testing.T) {
	failing := &recordingSink{name: "bad", err: errors.New("down")}
	healthy := &recordingSink{name: "good"}
	m := NewMulti(failing, healthy)

	if err := m.Send(context.Background(), "summary"); err != nil {
		t.Errorf("Send() error = %v; sink failures must not propagate", err)
	}
	if len(healthy.got) != 1 {
		t.Error("healthy sink should still receive the message")
	}
}

func TestSlackWebhookSend(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewSlackWebhook(srv.URL)
	if err := sink.Send(context.Background(), "3 rooms processed"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotBody != `{"text":"3 rooms processed"}` {
		t.Errorf("body = %q", gotBody)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
}

func TestSlackWebhookNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	sink := NewSlackWebhook(srv.URL)
	if err := sink.Send(context.Background(), "x"); err == nil {
		t.Error("Send() should fail on non-2xx status")
	}
}

func TestNewTelegramRequiresChatID(t *testing.T) {
	if _, err := NewTelegram("token", 0); err == nil {
		t.Error("NewTelegram() should fail without a chat ID")
	}
}

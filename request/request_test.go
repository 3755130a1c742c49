package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetSetsUserAgent(t *testing.T) {
	var gotUA string
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer svr.Close()

	c := New()
	body, err := c.GetBody(context.Background(), svr.URL)
	if err != nil {
		t.Fatalf("GetBody: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if !strings.HasPrefix(gotUA, "Scoop/1.0") {
		t.Errorf("User-Agent = %q, want Scoop/1.0 prefix", gotUA)
	}
}

func TestGetBodyNon2xxErrors(t *testing.T) {
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer svr.Close()

	c := New()
	if _, err := c.GetBody(context.Background(), svr.URL); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestAsyncDeliversResult(t *testing.T) {
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("async"))
	}))
	defer svr.Close()

	c := New()
	res := <-c.Async(context.Background(), svr.URL)
	if res.Err != nil {
		t.Fatalf("Async: %v", res.Err)
	}
	if string(res.Body) != "async" {
		t.Errorf("body = %q", res.Body)
	}
}

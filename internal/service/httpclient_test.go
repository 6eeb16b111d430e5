package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "body content")
	}))
	defer srv.Close()

	body, err := FetchBytes(context.Background(), NewHTTPClient(0), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if string(body) != "body content" {
		t.Errorf("wrong body: %q", body)
	}
}

func TestFetchBytes_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := FetchBytes(context.Background(), NewHTTPClient(0), srv.URL); err == nil {
		t.Fatalf("expected error for 503")
	}
}

func TestDownloadToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "file payload")
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "out.bin")
	if err := DownloadToFile(context.Background(), NewHTTPClient(0), srv.URL, dst, 0); err != nil {
		t.Fatalf("DownloadToFile: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "file payload" {
		t.Errorf("wrong content: %q", data)
	}
}

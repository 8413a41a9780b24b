package subsonic

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:4533", "admin", "sesame")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.URL != "http://localhost:4533" {
		t.Errorf("Expected URL http://localhost:4533, got %s", client.URL)
	}
	if client.Username != "admin" {
		t.Errorf("Expected username admin, got %s", client.Username)
	}
}

func TestGetSaltedPassword(t *testing.T) {
	token := getSaltedPassword("sesame", "c19b2d")
	expected := "26719a1196d2a940705a59634eb18eab"
	if token != expected {
		t.Errorf("Expected token %s, got %s", expected, token)
	}
}

func TestStartScan(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"subsonic-response": {"status": "ok"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "admin", "sesame")
	client.Salt = "c19b2d"
	client.Token = getSaltedPassword("sesame", "c19b2d")

	if err := client.StartScan(); err != nil {
		t.Fatalf("StartScan failed: %v", err)
	}
	if gotPath != "/rest/startScan.view" {
		t.Errorf("Expected path /rest/startScan.view, got %s", gotPath)
	}
}

func TestStartScanServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subsonic-response": {"status": "failed", "error": {"code": 40, "message": "Wrong username or password"}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "admin", "wrong")

	err := client.StartScan()
	if err == nil {
		t.Fatal("Expected an error for a failed scan")
	}
	if !strings.Contains(err.Error(), "Wrong username or password") {
		t.Errorf("Expected the server message in the error, got %v", err)
	}
}

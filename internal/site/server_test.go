package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playbookhq/playbook/internal/segment"
)

const testExport = `<!DOCTYPE html><html><head><style>p{}</style></head><body>
<article class="page"><nav class="toc">x</nav>
<h1>Scale</h1><p>Grow the team.</p><h2>Hiring plan</h2><p>Plan it.</p>
<h1>Hire</h1><p>Interview loops.</p>
</article></body></html>`

// writeSite lays out a minimal site root and returns its path.
func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"manifest.json":    `{"title":"Ops","export_html":"exports/doc.html"}`,
		"exports/doc.html": testExport,
		"main.js":          "console.log('main');",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealthz(t *testing.T) {
	s := NewServer(Config{Root: writeSite(t), Manifest: "manifest.json"}, nil)
	w := get(t, s.Handler(), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestSectionsGeneratedOnTheFly(t *testing.T) {
	s := NewServer(Config{Root: writeSite(t), Manifest: "manifest.json"}, nil)
	w := get(t, s.Handler(), "/data/sections.json")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	sections, err := segment.Decode(w.Body.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(sections) != 2 || sections[0].Slug != "scale" || sections[1].Slug != "hire" {
		t.Errorf("sections = %+v", sections)
	}
	if strings.Contains(sections[0].HTML(), "toc") {
		t.Errorf("exported toc leaked into sections: %s", sections[0].HTML())
	}
}

func TestSectionsFileServedVerbatim(t *testing.T) {
	root := writeSite(t)
	body := `{"sections":[{"title":"Only","slug":"only","html":"<h1>Only</h1>"}]}`
	if err := os.MkdirAll(filepath.Join(root, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "data", "sections.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewServer(Config{Root: root, Manifest: "manifest.json"}, nil)
	w := get(t, s.Handler(), "/data/sections.json")
	if w.Code != http.StatusOK || w.Body.String() != body {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestSectionsWithoutManifestIs404(t *testing.T) {
	s := NewServer(Config{Root: t.TempDir(), Manifest: "manifest.json"}, nil)
	w := get(t, s.Handler(), "/data/sections.json")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStaticLiveReloadInjection(t *testing.T) {
	root := writeSite(t)
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<html><body><p>hi</p></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		liveReload bool
		target     string
		wantTag    bool
	}{
		{"root page with reload", true, "/", true},
		{"named page with reload", true, "/index.html", true},
		{"root page without reload", false, "/", false},
		{"script untouched", true, "/main.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{Root: root, Manifest: "manifest.json", LiveReload: tt.liveReload}, nil)
			w := get(t, s.Handler(), tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if got := strings.Contains(w.Body.String(), liveReloadTag); got != tt.wantTag {
				t.Errorf("injected = %v, want %v: %q", got, tt.wantTag, w.Body.String())
			}
		})
	}
}

func TestStaticMissingPage(t *testing.T) {
	s := NewServer(Config{Root: writeSite(t), Manifest: "manifest.json", LiveReload: true}, nil)
	if w := get(t, s.Handler(), "/nope.html"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLiveReloadScriptRoute(t *testing.T) {
	on := NewServer(Config{Root: writeSite(t), LiveReload: true}, nil)
	if w := get(t, on.Handler(), "/livereload.js"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "WebSocket") {
		t.Errorf("live reload script: %d", w.Code)
	}
	off := NewServer(Config{Root: writeSite(t)}, nil)
	if w := get(t, off.Handler(), "/livereload.js"); w.Code != http.StatusNotFound {
		t.Errorf("script served with live reload off: %d", w.Code)
	}
}

func TestInjectLiveReload(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<body>x</body>", "<body>x" + liveReloadTag + "</body>"},
		{"<BODY>x</BODY>", "<BODY>x" + liveReloadTag + "</BODY>"},
		{"<p>fragment</p>", "<p>fragment</p>" + liveReloadTag},
	}
	for _, tt := range tests {
		if got := string(injectLiveReload([]byte(tt.in))); got != tt.want {
			t.Errorf("injectLiveReload(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Len() != 1 {
		t.Fatalf("clients = %d, want 1", hub.Len())
	}

	if sent := hub.Broadcast("manifest.json"); sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg reloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.Type != "reload" || msg.Reason != "manifest.json" {
		t.Errorf("message = %+v", msg)
	}
}

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"fiddle-server/api"
	"fiddle-server/disk"
	"fiddle-server/editor"
	"fiddle-server/fiddle"
	"fiddle-server/filemanager"
	"fiddle-server/ipc"
	"fiddle-server/logging"
	"fiddle-server/run"
	"fiddle-server/state"
)

type testEnv struct {
	srv       *httptest.Server
	bridge    *ipc.Bridge
	editor    *editor.State
	files     *filemanager.Manager
	runs      *run.Manager
	templates string
}

// newTestEnv serves the API over real temp directories. With ask set, unknown
// files are confirmed over the bridge; otherwise they are rejected.
func newTestEnv(t *testing.T, ask bool) *testEnv {
	t.Helper()
	log := logging.Discard()
	fsys := &disk.OS{TempRoot: t.TempDir()}
	store, err := state.NewStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ed := editor.New(store, fiddle.Metadata{Name: "test", ElectronVersion: "30.0.0"}, log)
	bridge := ipc.NewBridge(log)
	var verifier filemanager.CustomEditorVerifier = filemanager.RejectAll
	if ask {
		verifier = &ipc.Verifier{Bridge: bridge, Timeout: 2 * time.Second}
	}
	reader := fiddle.NewReader(fsys)
	templatesDir := t.TempDir()
	catalog := fiddle.NewCatalog(reader, templatesDir)

	fm := filemanager.New(filemanager.Options{
		FS:        fsys,
		State:     ed,
		Reader:    reader,
		Templates: catalog,
		Bridge:    bridge,
		Verifier:  verifier,
		Package:   fiddle.DefaultPackageOptions,
		Log:       log,
	})
	runs := run.NewManager(fm, bridge, run.Config{
		Command: []string{"electron", "."},
		Package: fiddle.DefaultPackageOptions,
		Spawn:   run.MockSpawnFn,
	}, log)

	srv := httptest.NewServer(api.RegisterRoutes(api.Deps{
		Files:     fm,
		Editor:    ed,
		Store:     store,
		Templates: catalog,
		Runs:      runs,
		Bridge:    bridge,
		Package:   fiddle.DefaultPackageOptions,
		Static:    fstest.MapFS{"index.html": {Data: []byte("<html></html>")}},
		Log:       log,
	}))
	t.Cleanup(func() {
		srv.Close()
		runs.StopAll()
		fm.Close()
	})
	return &testEnv{srv: srv, bridge: bridge, editor: ed, files: fm, runs: runs, templates: templatesDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type fiddleBody struct {
	Files         map[string]string `json:"files"`
	Options       fiddle.Options    `json:"options"`
	Edited        bool              `json:"edited"`
	CustomEditors []string          `json:"customEditors"`
}

func decodeFiddle(t *testing.T, resp *http.Response) fiddleBody {
	t.Helper()
	var body fiddleBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode fiddle: %v", err)
	}
	return body
}

func writeFiddle(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestGetFiddleHasPackageJSON(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodGet, "/api/fiddle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected json content-type, got %q", ct)
	}
	body := decodeFiddle(t, resp)
	pkg, ok := body.Files[fiddle.PackageJSONName]
	if !ok || pkg == "" {
		t.Fatalf("expected derived package.json, got %q", pkg)
	}
	if _, ok := body.Files["main.js"]; !ok {
		t.Fatal("expected main.js in files")
	}
}

func TestPutEditorsMarksEdited(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodPut, "/api/fiddle/editors", map[string]string{"main.js": "console.log(1)"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	body := decodeFiddle(t, env.do(t, http.MethodGet, "/api/fiddle", nil))
	if !body.Edited {
		t.Fatal("expected edited after PUT")
	}
	if body.Files["main.js"] != "console.log(1)" {
		t.Fatalf("expected updated main.js, got %q", body.Files["main.js"])
	}
}

func TestPutEditorsRejectsBadName(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodPut, "/api/fiddle/editors", map[string]string{"../evil.js": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestOpenFiddle(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()
	writeFiddle(t, dir, map[string]string{"main.js": "main", "index.html": "<p>"})

	resp := env.do(t, http.MethodPost, "/api/fiddle/open", map[string]string{"path": dir})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeFiddle(t, resp)
	if body.Files["main.js"] != "main" {
		t.Fatalf("expected main.js from disk, got %q", body.Files["main.js"])
	}
	if body.Options.FilePath != dir {
		t.Fatalf("expected filePath %q, got %q", dir, body.Options.FilePath)
	}

	var st state.AppState
	json.NewDecoder(env.do(t, http.MethodGet, "/api/state", nil).Body).Decode(&st)
	if len(st.RecentlyOpened) != 1 || st.RecentlyOpened[0] != dir {
		t.Fatalf("expected %q recently opened, got %v", dir, st.RecentlyOpened)
	}
}

func TestOpenFiddleMissing(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodPost, "/api/fiddle/open", map[string]string{"path": filepath.Join(t.TempDir(), "nope")})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestOpenFiddleEmptyPathRequestsDialog(t *testing.T) {
	env := newTestEnv(t, false)
	out := make(chan ipc.Message, 4)
	env.bridge.Subscribe(out)
	defer env.bridge.Unsubscribe(out)

	resp := env.do(t, http.MethodPost, "/api/fiddle/open", map[string]string{"path": ""})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	select {
	case msg := <-out:
		if msg.Event != ipc.OpenFiddleDialog {
			t.Fatalf("expected %s, got %s", ipc.OpenFiddleDialog, msg.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dialog request")
	}
}

func TestOpenFiddleBadBody(t *testing.T) {
	env := newTestEnv(t, false)

	req, _ := http.NewRequest(http.MethodPost, env.srv.URL+"/api/fiddle/open", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSaveFiddle(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()
	writeFiddle(t, dir, map[string]string{"styles.css": "stale"})
	env.do(t, http.MethodPut, "/api/fiddle/editors", map[string]string{"main.js": "main", "styles.css": ""})

	resp := env.do(t, http.MethodPost, "/api/fiddle/save", map[string]string{"path": dir})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var report filemanager.SaveReport
	json.NewDecoder(resp.Body).Decode(&report)
	if len(report.Failed) != 0 {
		t.Fatalf("expected no failures, got %v", report.Failed)
	}

	data, err := os.ReadFile(filepath.Join(dir, "main.js"))
	if err != nil || string(data) != "main" {
		t.Fatalf("expected main.js written, got %q (%v)", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "styles.css")); !os.IsNotExist(err) {
		t.Fatalf("expected empty styles.css removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, fiddle.PackageJSONName)); err != nil {
		t.Fatalf("expected package.json written: %v", err)
	}
	if env.editor.IsEdited() {
		t.Fatal("expected edited flag cleared after save")
	}
}

func TestSaveFiddleForge(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()
	env.do(t, http.MethodPut, "/api/fiddle/editors", map[string]string{"main.js": "main"})

	resp := env.do(t, http.MethodPost, "/api/fiddle/save-forge", map[string]string{"path": dir})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, err := os.ReadFile(filepath.Join(dir, fiddle.PackageJSONName))
	if err != nil {
		t.Fatalf("read package.json: %v", err)
	}
	if !strings.Contains(string(data), "@electron-forge/cli") {
		t.Fatalf("expected forge devDependency, got %s", data)
	}
}

func TestSaveFiddleEmptyPathRequestsDialog(t *testing.T) {
	env := newTestEnv(t, false)
	out := make(chan ipc.Message, 4)
	env.bridge.Subscribe(out)
	defer env.bridge.Unsubscribe(out)

	resp := env.do(t, http.MethodPost, "/api/fiddle/save", map[string]string{})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	msg := <-out
	if msg.Event != ipc.SaveFiddleDialog {
		t.Fatalf("expected %s, got %s", ipc.SaveFiddleDialog, msg.Event)
	}
}

func TestStageAndCleanupTemp(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodPut, "/api/fiddle/editors", map[string]string{"main.js": "main"})

	resp := env.do(t, http.MethodPost, "/api/fiddle/temp", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var staged struct {
		Dir string `json:"dir"`
	}
	json.NewDecoder(resp.Body).Decode(&staged)
	if _, err := os.Stat(filepath.Join(staged.Dir, "main.js")); err != nil {
		t.Fatalf("expected staged main.js: %v", err)
	}

	var removed struct {
		Removed bool `json:"removed"`
	}
	json.NewDecoder(env.do(t, http.MethodDelete, "/api/fiddle/temp", map[string]string{"dir": staged.Dir}).Body).Decode(&removed)
	if !removed.Removed {
		t.Fatal("expected removed=true")
	}
	if _, err := os.Stat(staged.Dir); !os.IsNotExist(err) {
		t.Fatalf("expected staged dir gone, got %v", err)
	}

	if resp := env.do(t, http.MethodDelete, "/api/fiddle/temp", map[string]string{"dir": staged.Dir}); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an already removed dir, got %d", resp.StatusCode)
	}
}

func TestCleanupTempRefusesUnstagedDir(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()
	writeFiddle(t, dir, map[string]string{"important.txt": "keep"})

	resp := env.do(t, http.MethodDelete, "/api/fiddle/temp", map[string]string{"dir": dir})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if _, err := os.Stat(filepath.Join(dir, "important.txt")); err != nil {
		t.Fatalf("expected unstaged dir to survive: %v", err)
	}
}

func TestSaveRequiresJSONContentType(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()
	env.do(t, http.MethodPut, "/api/fiddle/editors", map[string]string{"main.js": "main"})

	req, _ := http.NewRequest(http.MethodPost, env.srv.URL+"/api/fiddle/save", strings.NewReader(`{"path":"`+dir+`"}`))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.StatusCode)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.js")); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written, got %v", err)
	}
}

func TestForeignOriginRejected(t *testing.T) {
	env := newTestEnv(t, false)
	dir := t.TempDir()

	req, _ := http.NewRequest(http.MethodPost, env.srv.URL+"/api/fiddle/save", strings.NewReader(`{"path":"`+dir+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://evil.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if _, err := os.Stat(filepath.Join(dir, fiddle.PackageJSONName)); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written, got %v", err)
	}
}

func TestSameOriginAllowed(t *testing.T) {
	env := newTestEnv(t, false)

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/api/fiddle", nil)
	req.Header.Set("Origin", env.srv.URL)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestTemplates(t *testing.T) {
	env := newTestEnv(t, false)
	hello := filepath.Join(env.templates, "hello")
	if err := os.Mkdir(hello, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFiddle(t, hello, map[string]string{"main.js": "hello"})

	var names []string
	json.NewDecoder(env.do(t, http.MethodGet, "/api/templates", nil).Body).Decode(&names)
	if len(names) != 1 || names[0] != "hello" {
		t.Fatalf("expected [hello], got %v", names)
	}

	resp := env.do(t, http.MethodPost, "/api/templates/hello/open", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeFiddle(t, resp)
	if body.Files["main.js"] != "hello" || body.Options.TemplateName != "hello" {
		t.Fatalf("expected hello template, got %+v", body)
	}

	if resp := env.do(t, http.MethodPost, "/api/templates/missing/open", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPost, "/api/templates/..%2Fetc/open", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestStaticIndex(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html content-type, got %q", ct)
	}
}

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ttsdumper/config"
	"ttsdumper/internal/asset"
	"ttsdumper/internal/models"
)

func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd, listCmd, uploadCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute(&config.Config{
		Workers:   2,
		Timeout:   5 * time.Second,
		UserAgent: "ttsdumper-test",
	})
	return stdout.String(), stderr.String(), err
}

// assetServer serves every path except /missing* with the path as body.
func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(path.Base(r.URL.Path), "missing") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeSave(t *testing.T, dir, name, body string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write save: %v", err)
	}
	return file
}

func meshSave(srvURL string) string {
	return fmt.Sprintf(`{
  "SaveName": "My Game!",
  "ObjectStates": [
    {"Name": "Custom_Model", "CustomMesh": {"MeshURL": "%[1]s/piece.obj", "DiffuseURL": "%[1]s/tex.png"}}
  ]
}`, srvURL)
}

func decodeDump(t *testing.T, stdout string) models.DumpResult {
	t.Helper()
	var result models.DumpResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Failed to decode dump result %q: %v", stdout, err)
	}
	return result
}

func TestDumpWritesAssets(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()
	save := writeSave(t, dir, "save.json", meshSave(srv.URL))
	output := filepath.Join(dir, "out")

	stdout, _, err := execute(t, save, "--output", output)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	result := decodeDump(t, stdout)
	if result.TotalTasks != 2 || result.Written != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 tasks written", result)
	}
	if result.OutputDir != output {
		t.Errorf("OutputDir = %q, want %q", result.OutputDir, output)
	}
	if result.RunID == "" {
		t.Error("RunID is empty")
	}

	model := asset.NewTask(srv.URL+"/piece.obj", asset.KindModel)
	data, err := os.ReadFile(filepath.Join(output, model.RelPath()))
	if err != nil {
		t.Fatalf("model not written: %v", err)
	}
	if string(data) != "/piece.obj" {
		t.Errorf("model content = %q", data)
	}

	image := asset.NewTask(srv.URL+"/tex.png", asset.KindImage)
	if _, err := os.Stat(filepath.Join(output, image.RelPath())); err != nil {
		t.Errorf("image not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "PDF")); err != nil {
		t.Errorf("PDF dir not created: %v", err)
	}
}

func TestDumpSkipsOnSecondRun(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()
	save := writeSave(t, dir, "save.json", meshSave(srv.URL))
	output := filepath.Join(dir, "out")

	if _, _, err := execute(t, save, "-o", output); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	stdout, _, err := execute(t, save, "-o", output)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	result := decodeDump(t, stdout)
	if result.Skipped != 2 || result.Written != 0 {
		t.Errorf("second run = %+v, want 2 skipped", result)
	}

	stdout, _, err = execute(t, save, "-o", output, "--replace")
	if err != nil {
		t.Fatalf("replace run error = %v", err)
	}
	if result := decodeDump(t, stdout); result.Written != 2 {
		t.Errorf("replace run written = %d, want 2", result.Written)
	}
}

func TestDumpReportsFailures(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()
	save := writeSave(t, dir, "save.json", fmt.Sprintf(`{
  "ObjectStates": [
    {"CustomImage": {"ImageURL": "%[1]s/board.png"}},
    {"CustomPDF": {"PDFUrl": "%[1]s/missing.pdf"}}
  ]
}`, srv.URL))

	stdout, _, err := execute(t, save, "-o", filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("Execute() error = nil, want failure for missing asset")
	}

	result := decodeDump(t, stdout)
	if result.Written != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v, want 1 written 1 failed", result)
	}
	failure := result.Errors[0]
	if failure.StatusCode != http.StatusNotFound || failure.Kind != "pdf" {
		t.Errorf("failure = %+v", failure)
	}
}

func TestDumpDefaultOutputDir(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()
	save := writeSave(t, dir, "save.json", meshSave(srv.URL))

	stdout, _, err := execute(t, save)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := filepath.Join(dir, "TTS_my-game")
	if result := decodeDump(t, stdout); result.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", result.OutputDir, want)
	}
	if _, err := os.Stat(filepath.Join(want, "Models")); err != nil {
		t.Errorf("Models dir not created: %v", err)
	}
}

func TestDumpRejectsBadInput(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()
	bad := writeSave(t, dir, "bad.json", `{"SaveName": "x"}`)
	good := writeSave(t, dir, "good.json", meshSave(srv.URL))
	output := filepath.Join(dir, "out")

	stdout, _, err := execute(t, bad, good, "-o", output)
	if err == nil {
		t.Fatal("Execute() error = nil, want error for rejected input")
	}
	result := decodeDump(t, stdout)
	if result.Written != 2 {
		t.Errorf("Written = %d, want 2 from the good input", result.Written)
	}
	if len(result.InputErrors) != 1 || result.InputErrors[0].Path != bad {
		t.Errorf("InputErrors = %+v", result.InputErrors)
	}
}

func TestDumpAllInputsFail(t *testing.T) {
	dir := t.TempDir()
	bad := writeSave(t, dir, "bad.json", `not json`)
	output := filepath.Join(dir, "out")

	stdout, _, err := execute(t, bad, "-o", output)
	if err == nil {
		t.Fatal("Execute() error = nil, want error")
	}

	var list models.TaskList
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("Failed to decode output %q: %v", stdout, err)
	}
	if len(list.InputErrors) != 1 {
		t.Errorf("InputErrors = %+v, want 1", list.InputErrors)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output dir should not exist, stat error = %v", err)
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	save := writeSave(t, dir, "save.json", meshSave("http://cdn.example.com"))

	stdout, _, err := execute(t, "list", save)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var list models.TaskList
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("Failed to decode task list %q: %v", stdout, err)
	}
	if list.SaveName != "My Game!" || list.TotalTasks != 2 {
		t.Errorf("list = %+v", list)
	}

	kinds := map[asset.Kind]string{}
	for _, task := range list.Tasks {
		kinds[task.Kind] = task.URL
	}
	if kinds[asset.KindModel] != "http://cdn.example.com/piece.obj" {
		t.Errorf("model task = %q", kinds[asset.KindModel])
	}
	if kinds[asset.KindImage] != "http://cdn.example.com/tex.png" {
		t.Errorf("image task = %q", kinds[asset.KindImage])
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("list created files in %s: %d entries", dir, len(entries))
	}
}

func TestFieldsOverride(t *testing.T) {
	dir := t.TempDir()
	fields := filepath.Join(dir, "fields.yaml")
	if err := os.WriteFile(fields, []byte("image:\n  LutURL: image\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	save := writeSave(t, dir, "save.json", `{"ObjectStates": [{"LutURL": "http://cdn.example.com/lut.png"}]}`)

	stdout, _, err := execute(t, "list", save, "--fields", fields)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var list models.TaskList
	if err := json.Unmarshal([]byte(stdout), &list); err != nil {
		t.Fatalf("Failed to decode task list: %v", err)
	}
	if list.TotalTasks != 1 || list.Tasks[0].Kind != asset.KindImage {
		t.Errorf("list = %+v, want one image task", list)
	}
}

func TestUploadDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "TTS_game")
	if err := os.MkdirAll(filepath.Join(dir, "Images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Images", "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "upload", dir, "--dry-run", "--bucket", "assets", "-d", "mods")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var result models.UploadResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Failed to decode upload result %q: %v", stdout, err)
	}
	if !result.DryRun || result.BucketName != "assets" || result.TotalFiles != 1 {
		t.Fatalf("result = %+v", result)
	}
	if got := result.Items[0].RemotePath; got != "mods/TTS_game/Images/a.png" {
		t.Errorf("RemotePath = %q", got)
	}
}

func TestDefaultOutputName(t *testing.T) {
	tests := []struct {
		saveName string
		input    string
		expected string
	}{
		{"My Game!", "/saves/123.json", "TTS_my-game"},
		{"", "/saves/2374822352.json", "TTS_2374822352"},
		{"  ", "/saves/Cool Mod.json", "TTS_cool-mod"},
		{"", "/saves/!!!.json", "TTS_assets"},
	}

	for _, tt := range tests {
		if got := defaultOutputName(tt.saveName, tt.input); got != tt.expected {
			t.Errorf("defaultOutputName(%q, %q) = %q, want %q", tt.saveName, tt.input, got, tt.expected)
		}
	}
}

package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

type failFS struct{ err error }

func (f failFS) ReadFile(string) ([]byte, error)  { return nil, f.err }
func (f failFS) Stat(string) (fs.FileInfo, error) { return nil, f.err }

// ============================================================================
// TOML
// ============================================================================

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/styledtext.toml", `
[tab]
width = 4
insert_spaces = true

[font]
name = "Menlo"
color = "#ff0000"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/styledtext.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tab, ok := config["tab"].(map[string]any)
	if !ok {
		t.Fatal("expected tab to be a map")
	}
	if tab["width"] != int64(4) {
		t.Errorf("width = %v (%T), want 4", tab["width"], tab["width"])
	}
	if tab["insert_spaces"] != true {
		t.Errorf("insert_spaces = %v, want true", tab["insert_spaces"])
	}
	if v, _ := GetPath(config, "font.color"); v != "#ff0000" {
		t.Errorf("font.color = %v, want #ff0000", v)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil", config)
	}
}

func TestTOMLLoader_ReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := NewTOMLLoaderWithFS(failFS{boom}, "/a.toml").Load()
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[tab]\nwidth = = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q, want line number", perr.Error())
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[undo]\ndepth = 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := GetPath(config, "undo.depth"); v != int64(3) {
		t.Errorf("undo.depth = %v", v)
	}
}

// ============================================================================
// YAML
// ============================================================================

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/styledtext.yaml", `
tab:
  width: 2
edit:
  auto_indent: true
font:
  size: 14
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/styledtext.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"tab.width", int64(2)},
		{"edit.auto_indent", true},
		{"font.size", int64(14)},
	}
	for _, tt := range tests {
		got, ok := GetPath(config, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
}

func TestYAMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "tab: [1, 2\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

// ============================================================================
// Format selection
// ============================================================================

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"A.TOML", FormatTOML, false},
		{"a.yaml", FormatYAML, false},
		{"dir/a.yml", FormatYAML, false},
		{"a.json", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatOf = %q, want %q", got, tt.want)
			}
			l, err := ForPath(NewMemFS(), tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("ForPath should fail")
				}
				return
			}
			switch l.(type) {
			case *TOMLLoader:
				if tt.want != FormatTOML {
					t.Errorf("got TOML loader for %s", tt.path)
				}
			case *YAMLLoader:
				if tt.want != FormatYAML {
					t.Errorf("got YAML loader for %s", tt.path)
				}
			}
		})
	}
}

// ============================================================================
// Merge helpers
// ============================================================================

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"tab":  map[string]any{"width": int64(8), "insert_spaces": false},
		"font": map[string]any{"name": "Courier"},
	}
	src := map[string]any{
		"tab":  map[string]any{"width": int64(4)},
		"font": "flat",
		"log":  map[string]any{"level": "debug"},
	}

	got := DeepMerge(dst, src)

	if v, _ := GetPath(got, "tab.width"); v != int64(4) {
		t.Errorf("tab.width = %v, want 4", v)
	}
	if v, _ := GetPath(got, "tab.insert_spaces"); v != false {
		t.Errorf("tab.insert_spaces = %v, want kept false", v)
	}
	if got["font"] != "flat" {
		t.Errorf("font = %v, want replaced by scalar", got["font"])
	}
	if v, _ := GetPath(got, "log.level"); v != "debug" {
		t.Errorf("log.level = %v", v)
	}
	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) should return an empty map")
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{"tab": map[string]any{"width": int64(8)}}
	cp := Clone(src)
	SetPath(cp, "tab.width", int64(2))

	if v, _ := GetPath(src, "tab.width"); v != int64(8) {
		t.Errorf("clone shares nested maps: src tab.width = %v", v)
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestGetPathThroughScalar(t *testing.T) {
	m := map[string]any{"tab": int64(1)}
	if _, ok := GetPath(m, "tab.width"); ok {
		t.Error("GetPath should not descend into a scalar")
	}
	SetPath(m, "tab.width", int64(3))
	if v, _ := GetPath(m, "tab.width"); v != int64(3) {
		t.Errorf("SetPath should replace the scalar, got %v", v)
	}
}

package loader

import "testing"

func envLoader(vars ...string) *EnvLoader {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string { return vars }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := envLoader(
		"STYLEDTEXT_TAB_INSERT_SPACES=yes",
		"STYLEDTEXT_UNDO_DEPTH=1",
		"STYLEDTEXT_EDIT_AUTO_INDENT=off",
		"STYLEDTEXT_LOG_LEVEL=debug",
		"STYLEDTEXT_FONT=Menlo",
		"STYLEDTEXT_TAB_SIZE=3",
		"STYLEDTEXT_RATIO=1.5",
		"STYLEDTEXT_FONT_COLOR=",
		"HOME=/root",
	)

	config, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"tab.insert_spaces", true},
		{"undo.depth", int64(1)},
		{"edit.auto_indent", false},
		{"log.level", "debug"},
		{"font.name", "Menlo"},
		{"tab.width", int64(3)},
		{"font.color", ""},
	}
	for _, tt := range tests {
		got, ok := GetPath(config, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.path, got, got, tt.want, tt.want)
		}
	}

	if _, ok := config["ratio"]; ok {
		t.Error("a variable without a key should be skipped")
	}
	if _, ok := config["home"]; ok {
		t.Error("unprefixed variables should be ignored")
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := envLoader("STYLEDTEXT_DEPTH=7")
	l.AddMapping("STYLEDTEXT_DEPTH", "undo.depth")

	config, _ := l.Load()
	if v, _ := GetPath(config, "undo.depth"); v != int64(7) {
		t.Errorf("undo.depth = %v, want 7", v)
	}
}

func TestParseEnvValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"TRUE", true},
		{"No", false},
		{"0", int64(0)},
		{"-12", int64(-12)},
		{"2.5", 2.5},
		{"v1.2.3", "v1.2.3"},
		{"#00ff00", "#00ff00"},
	}
	for _, tt := range tests {
		if got := parseEnvValue(tt.in); got != tt.want {
			t.Errorf("parseEnvValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/pthm/hxpage"
)

const pageMarkup = `<html><body>
<h1 wicket:id="title">Title</h1>
<ul wicket:id="list">
  <li wicket:id="item">x</li>
</ul>
<wicket:container>plain</wicket:container>
</body></html>`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hxpage version "+version+"\n" {
		t.Errorf("output = %q", out)
	}
}

func TestInspect(t *testing.T) {
	path := writeFile(t, "page.html", pageMarkup)

	out, err := run(t, "", "inspect", path)
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	for _, want := range []string{
		"title <h1> line 2\n",
		"list <ul> line 3\n",
		"  item <li> line 4\n",
		"<wicket:container> line 6 (framework, auto)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestInspect_YAML(t *testing.T) {
	out, err := run(t, `<div wicket:id="a"><span wicket:id="b"></span></div>`, "inspect", "-", "--format", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	var got []tagInfo
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	want := []tagInfo{{ID: "a", Name: "div", Line: 1, Children: []*tagInfo{{ID: "b", Name: "span", Line: 1}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestInspect_Errors(t *testing.T) {
	if _, err := run(t, "", "inspect", filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("missing file: error = nil")
	}
	if _, err := run(t, "<p></p>", "inspect", "-", "--format", "xml"); err == nil {
		t.Error("unknown format: error = nil")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "labels and placeholders",
			args: []string{"--label", "title=Hello", "--placeholders"},
			want: "<h1>Hello</h1>",
		},
		{
			name:    "unknown tags fail",
			args:    []string{"--label", "title=Hello"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, pageMarkup, append([]string{"render", "-"}, tt.args...)...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("render error = nil, output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("render error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
			if strings.Contains(out, "wicket:") {
				t.Errorf("output %q kept framework markup", out)
			}
		})
	}
}

func TestRender_Message(t *testing.T) {
	out, err := run(t, `<p><wicket:message key="hi">x</wicket:message></p>`, "render", "-", "--message", "hi=Hello")
	if err != nil {
		t.Fatal(err)
	}
	if out != "<p>Hello</p>" {
		t.Errorf("output = %q", out)
	}
}

func TestConfig(t *testing.T) {
	out, err := run(t, "", "config")
	if err != nil {
		t.Fatal(err)
	}
	got, err := hxpage.ParseSettings([]byte(out))
	if err != nil {
		t.Fatalf("printed settings do not parse: %v", err)
	}
	if diff := cmp.Diff(hxpage.DefaultSettings(), got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}

	path := writeFile(t, "hxpage.yaml", "max_pages: 0\n")
	if _, err := run(t, "", "config", path); err == nil {
		t.Error("invalid settings: error = nil")
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/pipeline"
)

const titanicCSV = `Class,Sex,Survived
First,F,Yes
First,F,Yes
First,M,No
Second,M,No
Second,F,Yes
Crew,M,No
Crew,M,No
Crew,M,Yes
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titanic.csv")
	if err := os.WriteFile(path, []byte(titanicCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestCLI returns a CLI whose output and logs go to buffers.
func newTestCLI() (*CLI, *bytes.Buffer) {
	var out, logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	c.Out = &out
	return c, &out
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "svg", []string{"svg"}},
		{"multiple", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " Class , ,Sex ", []string{"Class", "Sex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseList(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/titanic.csv", "data/titanic"},
		{"", "", "parsets"},
		{"out/chart.svg", "titanic.csv", "out/chart"},
		{"out/chart.tree.svg", "titanic.csv", "out/chart"},
		{"chart.json", "titanic.csv", "chart"},
		{"chart", "titanic.csv", "chart"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	paths := outputPaths("out/chart", []string{"svg", "tree", "dot"})
	want := map[string]string{
		"svg":  "out/chart.svg",
		"tree": "out/chart.tree.svg",
		"dot":  "out/chart.dot",
	}
	for f, p := range want {
		if paths[f] != p {
			t.Errorf("outputPaths[%q] = %q, want %q", f, paths[f], p)
		}
	}
}

func TestNeedsConverter(t *testing.T) {
	if needsConverter([]string{"svg", "json", "dot"}) {
		t.Error("svg/json/dot should not need a converter")
	}
	for _, f := range []string{"png", "pdf", "tree"} {
		if !needsConverter([]string{"svg", f}) {
			t.Errorf("%s should need a converter", f)
		}
	}
}

func TestSetLogFormat(t *testing.T) {
	c, _ := newTestCLI()
	for _, name := range []string{"", "text", "json", "logfmt"} {
		if err := c.setLogFormat(name); err != nil {
			t.Errorf("setLogFormat(%q) error = %v", name, err)
		}
	}
	err := c.setLogFormat("xml")
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("setLogFormat(xml) error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "parsets.toml")
	cfg := `dimensions = ["Class", "Sex"]
width = 500

[axes.""]
max_segments = 4
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, o pipeline.Options)
		wantErr bool
	}{
		{
			name: "flags only",
			args: []string{"-d", "A,B", "--sort", "asc", "--tension", "0.5"},
			check: func(t *testing.T, o pipeline.Options) {
				if strings.Join(o.Dimensions, ",") != "A,B" {
					t.Errorf("Dimensions = %v", o.Dimensions)
				}
				if o.Axes[""].Sort != "asc" {
					t.Errorf("default sort = %q, want asc", o.Axes[""].Sort)
				}
				if *o.Tension != 0.5 {
					t.Errorf("Tension = %v, want 0.5", *o.Tension)
				}
				if o.Width != pipeline.DefaultWidth {
					t.Errorf("Width = %v, want default", o.Width)
				}
			},
		},
		{
			name: "config file",
			args: []string{"-c", cfgPath},
			check: func(t *testing.T, o pipeline.Options) {
				if strings.Join(o.Dimensions, ",") != "Class,Sex" {
					t.Errorf("Dimensions = %v", o.Dimensions)
				}
				if o.Width != 500 {
					t.Errorf("Width = %v, want 500 from config", o.Width)
				}
				if o.Axes[""].MaxSegments != 4 {
					t.Errorf("MaxSegments = %d, want 4", o.Axes[""].MaxSegments)
				}
			},
		},
		{
			name: "flags override config",
			args: []string{"-c", cfgPath, "--width", "700", "--merged-label", "Rest", "-d", "Sex"},
			check: func(t *testing.T, o pipeline.Options) {
				if o.Width != 700 {
					t.Errorf("Width = %v, want 700", o.Width)
				}
				if strings.Join(o.Dimensions, ",") != "Sex" {
					t.Errorf("Dimensions = %v", o.Dimensions)
				}
				def := o.Axes[""]
				if def.MaxSegments != 4 || def.MergedLabel != "Rest" {
					t.Errorf("default axis = %+v, want config limit with flag label", def)
				}
			},
		},
		{name: "no dimensions", args: []string{"--width", "10"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f optionFlags
			cmd := &cobra.Command{Use: "x"}
			f.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			opts, err := f.options(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("options() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, opts)
			}
		})
	}
}

func TestSourceFlags(t *testing.T) {
	var f sourceFlags
	if _, err := f.source(nil); err == nil {
		t.Error("source() without file or mongo should fail")
	}

	src, err := f.source([]string{"titanic.csv"})
	if err != nil {
		t.Fatalf("source() error = %v", err)
	}
	if src.Path != "titanic.csv" || src.Mongo != nil {
		t.Errorf("source() = %+v", src)
	}

	f = sourceFlags{mongoURI: "mongodb://localhost", mongoDB: "db", mongoColl: "people"}
	src, err = f.source(nil)
	if err != nil {
		t.Fatalf("mongo source() error = %v", err)
	}
	src = f.withFields(src, []string{"Class"})
	if src.Mongo == nil || src.Mongo.Fields[0] != "Class" {
		t.Errorf("withFields() = %+v", src.Mongo)
	}
}

func TestRenderCommandWritesFiles(t *testing.T) {
	input := writeCSV(t)
	base := filepath.Join(t.TempDir(), "out", "chart")

	c, _ := newTestCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-d", "Class,Sex,Survived", "-f", "svg,json,dot", "-o", base, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render error = %v", err)
	}

	for _, ext := range []string{".svg", ".json", ".dot"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Fatalf("missing %s output: %v", ext, err)
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

func TestRenderCommandStdout(t *testing.T) {
	input := writeCSV(t)

	c, out := newTestCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-d", "Class", "-f", "json", "-o", "-", "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render error = %v", err)
	}

	var doc struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if doc.Total != 8 {
		t.Errorf("total = %d, want 8", doc.Total)
	}
}

func TestRenderCommandRejectsBadFormat(t *testing.T) {
	input := writeCSV(t)

	c, _ := newTestCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-d", "Class", "-f", "gif", "--no-cache"})
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("render error = %v, want INVALID_FORMAT", err)
	}
}

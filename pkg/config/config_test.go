package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/knuth"
)

const tomlConfig = `
[breaking]
width = 6000
alignment = "center"
alignment_last = "end"
threshold = 2.5
force = false
max_flag_count = 2
break_class = "no-flagged"

[text]
units_per_cell = 10
hyphenate = true

[cache]
url = "${LINEBREAK_TEST_CACHE:-file:///tmp/lb}"
ttl = "30m"

[server]
addr = ":9000"
`

const yamlConfig = `
breaking:
  widths: [4000, 5000]
  alignment: justify
  looseness: -1
  fitness_demerit: 75
text:
  reflow: true
server:
  read_timeout: 3s
  workers: 4
`

func TestParse_TOML(t *testing.T) {
	f, err := Parse([]byte(tomlConfig), "toml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Breaking.Width != 6000 || f.Breaking.Threshold != 2.5 || f.Breaking.Force == nil || *f.Breaking.Force {
		t.Errorf("breaking = %+v", f.Breaking)
	}
	if f.Text.UnitsPerCell != 10 || !f.Text.Hyphenate {
		t.Errorf("text = %+v", f.Text)
	}
	if f.Cache.URL != "file:///tmp/lb" {
		t.Errorf("cache url = %q", f.Cache.URL)
	}
	if f.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("cache ttl = %v", f.Cache.TTL)
	}
	if f.Server.Addr != ":9000" || f.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("server = %+v", f.Server)
	}
}

func TestParse_YAML(t *testing.T) {
	f, err := Parse([]byte(yamlConfig), "yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Breaking.Widths) != 2 || f.Breaking.Widths[1] != 5000 || f.Breaking.Looseness != -1 {
		t.Errorf("breaking = %+v", f.Breaking)
	}
	if !f.Text.Reflow {
		t.Error("text.reflow not decoded")
	}
	if f.Server.ReadTimeout.Duration != 3*time.Second || f.Server.WriteTimeout.Duration != DefaultWriteTimeout {
		t.Errorf("server = %+v", f.Server)
	}
	if f.Server.Workers != 4 {
		t.Errorf("workers = %d", f.Server.Workers)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("LINEBREAK_TEST_CACHE", "redis://localhost:6379/0")

	f, err := Parse([]byte(tomlConfig), "toml")
	if err != nil {
		t.Fatal(err)
	}
	if f.Cache.URL != "redis://localhost:6379/0" {
		t.Errorf("cache url = %q", f.Cache.URL)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
		code   errors.Code
	}{
		{"bad toml", "[breaking\nwidth = 1", "toml", errors.ErrCodeInvalidFormat},
		{"unknown toml key", "[breaking]\nwidht = 1", "toml", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "breaking:\n  widht: 1\n", "yaml", errors.ErrCodeInvalidFormat},
		{"alignment", "[breaking]\nalignment = \"diagonal\"", "toml", errors.ErrCodeInvalidAlignment},
		{"last alignment", "breaking:\n  alignment_last: up\n", "yaml", errors.ErrCodeInvalidAlignment},
		{"negative width", "[breaking]\nwidth = -5", "toml", errors.ErrCodeInvalidInput},
		{"threshold", "[breaking]\nthreshold = -1.0", "toml", errors.ErrCodeInvalidConfig},
		{"break class", "[breaking]\nbreak_class = \"some\"", "toml", errors.ErrCodeInvalidConfig},
		{"cache scheme", "[cache]\nurl = \"s3://bucket\"", "toml", errors.ErrCodeUnsupported},
		{"duration", "[cache]\nttl = \"soon\"", "toml", errors.ErrCodeInvalidFormat},
		{"format", "width=1", "ini", errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, format := range []string{"toml", "yaml"} {
		f, err := Parse(nil, format)
		if err != nil {
			t.Fatalf("Parse(%s): %v", format, err)
		}
		if f.Server.Addr != DefaultAddr {
			t.Errorf("%s: addr = %q, want default", format, f.Server.Addr)
		}
	}
}

func TestBreakingConfig_Apply(t *testing.T) {
	force := false
	demerit := 10.0
	b := BreakingConfig{
		Alignment:      "right",
		Threshold:      3,
		Force:          &force,
		Recovery:       true,
		MaxRecovery:    2,
		Looseness:      1,
		FlaggedDemerit: &demerit,
	}

	cfg := knuth.DefaultConfig()
	if err := b.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Alignment != knuth.AlignEnd || cfg.AlignmentLast != knuth.AlignStart {
		t.Errorf("alignments = %v, %v", cfg.Alignment, cfg.AlignmentLast)
	}
	if cfg.Threshold != 3 || cfg.Force || !cfg.PartOverflowRecovery || cfg.MaxRecoveryAttempts != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Looseness != 1 || cfg.RepeatedFlaggedDemerit != 10 || cfg.IncompatibleFitnessDemerit != knuth.DefaultIncompatibleFitnessDemerit {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestBreakClassValue(t *testing.T) {
	tests := []struct {
		in   string
		want knuth.BreakClass
	}{
		{"", knuth.AllBreaks},
		{"all", knuth.AllBreaks},
		{"no-flagged", knuth.NoFlaggedPenalties},
		{"only-forced", knuth.OnlyForcedBreaks},
	}
	for _, tt := range tests {
		got, err := BreakingConfig{BreakClass: tt.in}.BreakClassValue()
		if err != nil || got != tt.want {
			t.Errorf("BreakClassValue(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Find(dir); ok {
		t.Fatal("Find() reported a file in an empty directory")
	}

	path := filepath.Join(dir, "linebreak.yaml")
	if err := os.WriteFile(path, []byte(yamlConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	found, ok := Find(t.TempDir(), dir)
	if !ok || found != path {
		t.Fatalf("Find() = %q, %v; want %q", found, ok, path)
	}

	f, err := Load(found)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Breaking.Alignment != "justify" {
		t.Errorf("alignment = %q", f.Breaking.Alignment)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Minute {
		t.Errorf("Duration = %v", d.Duration)
	}
	out, _ := d.MarshalText()
	if string(out) != "1h30m0s" {
		t.Errorf("MarshalText = %s", out)
	}
}

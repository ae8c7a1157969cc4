// internal/commands/root_test.go
package abplay

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/abplay/internal/abtest"
)

// run executes a fresh command tree with args, isolating config and log
// files in a temp dir.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{"--config", filepath.Join(dir, "missing.json"), "--logFile", filepath.Join(dir, "abplay.log")}

	var b bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&b)
	root.SetErr(&b)
	root.SetArgs(append(args, base...))
	err := root.Execute()
	return b.String(), err
}

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	_, err := run(t, "nonexistent")
	if err == nil {
		t.Fatal("Expected an error for a nonexistent command, but got none")
	}
	expected := "unknown command \"nonexistent\" for \"abplay\""
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error to contain '%s', but got '%s'", expected, err.Error())
	}
}

func TestEvaluateText(t *testing.T) {
	out, err := run(t, "evaluate", "--n-a", "1000", "--c-a", "100", "--n-b", "1000", "--c-b", "130")
	if err != nil {
		t.Fatalf("evaluate failed: %v\n%s", err, out)
	}
	for _, want := range []string{"CR(A)", "10.0%", "13.0%", "ship variant B"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output; got:\n%s", want, out)
		}
	}
}

func TestEvaluateJSONWithFlags(t *testing.T) {
	out, err := run(t, "evaluate", "--n-a", "1000", "--c-a", "100", "--n-b", "1000", "--c-b", "105",
		"--alternative", "larger", "--alpha", "0.1", "--jsonMode")
	if err != nil {
		t.Fatalf("evaluate failed: %v\n%s", err, out)
	}
	var decoded struct {
		Result abtest.Result `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("expected JSON output, got %v:\n%s", err, out)
	}
	if decoded.Result.Alternative != abtest.Larger || decoded.Result.Alpha != 0.1 {
		t.Fatalf("flags not applied: %+v", decoded.Result)
	}
}

func TestEvaluateValidationError(t *testing.T) {
	out, err := run(t, "evaluate", "--n-a", "10", "--c-a", "11", "--n-b", "10", "--c-b", "1")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "invalid conversions_a") {
		t.Fatalf("expected field-specific message, got: %s", out)
	}

	_, err = run(t, "evaluate", "--n-a", "10", "--c-a", "1", "--n-b", "10", "--c-b", "1", "--alternative", "sideways")
	if err == nil || !strings.Contains(err.Error(), "alternative") {
		t.Fatalf("expected alternative error, got %v", err)
	}

	_, err = run(t, "evaluate", "--n-a", "10", "--c-a", "1", "--n-b", "10", "--c-b", "1", "--alpha", "1")
	if err == nil || !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("expected alpha error, got %v", err)
	}
}

func TestEvaluateRequiresCounts(t *testing.T) {
	if _, err := run(t, "evaluate", "--n-a", "10"); err == nil {
		t.Fatal("expected missing flag error")
	}
}

func TestEvaluateOutputAndExport(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "report.md")
	export := filepath.Join(dir, "export", "report.json")

	out, err := run(t, "evaluate", "--n-a", "1000", "--c-a", "100", "--n-b", "1000", "--c-b", "130",
		"--format", "markdown", "--output", output, "--export", export, "--name", "hero")
	if err != nil {
		t.Fatalf("evaluate failed: %v\n%s", err, out)
	}
	md, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(md), "## A/B Test Result: hero") {
		t.Fatalf("unexpected markdown output: %s", md)
	}
	js, err := os.ReadFile(export)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !json.Valid(js) {
		t.Fatalf("export is not JSON: %s", js)
	}
}

func TestConfigFileAppliesAndFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"alpha": 0.01, "alternative": "smaller", "format": "json"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&b)
	root.SetErr(&b)
	root.SetArgs([]string{"evaluate", "--config", cfgPath, "--logFile", filepath.Join(dir, "a.log"),
		"--n-a", "1000", "--c-a", "100", "--n-b", "1000", "--c-b", "130", "--alpha", "0.05"})
	if err := root.Execute(); err != nil {
		t.Fatalf("evaluate failed: %v\n%s", err, b.String())
	}

	var decoded struct {
		Result abtest.Result `json:"result"`
	}
	if err := json.Unmarshal(b.Bytes(), &decoded); err != nil {
		t.Fatalf("expected JSON from config format, got %v:\n%s", err, b.String())
	}
	if decoded.Result.Alternative != abtest.Smaller {
		t.Fatalf("expected config alternative, got %v", decoded.Result.Alternative)
	}
	if decoded.Result.Alpha != 0.05 {
		t.Fatalf("expected flag alpha to override config, got %v", decoded.Result.Alpha)
	}
}

func TestInvalidConfigFileRejected(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"alpha": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"show", "config", "--config", cfgPath, "--logFile", filepath.Join(dir, "a.log")})
	if err := root.Execute(); err == nil {
		t.Fatal("expected schema error for alpha out of range")
	}
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "experiments.json")
	doc := `{"experiments":[
		{"name":"hero","sample_size_a":1000,"conversions_a":100,"sample_size_b":1000,"conversions_b":130},
		{"name":"broken","sample_size_a":0,"conversions_a":0,"sample_size_b":10,"conversions_b":1}
	]}`
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "batch", "--input", input)
	if err != nil {
		t.Fatalf("batch failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "hero") || !strings.Contains(out, "ship variant B") {
		t.Fatalf("missing hero row: %s", out)
	}
	if !strings.Contains(out, "sample_size_a") {
		t.Fatalf("missing error row: %s", out)
	}
}

func TestLearnCmd(t *testing.T) {
	out, err := run(t, "learn", "p-value")
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}
	if !strings.Contains(out, "What is a p-value?") {
		t.Fatalf("unexpected learn output: %s", out)
	}

	out, err = run(t, "learn")
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}
	for _, title := range []string{"What is an A/B test?", "Control vs Variant", "What is conversion rate?"} {
		if !strings.Contains(out, title) {
			t.Fatalf("expected %q in output: %s", title, out)
		}
	}

	if _, err := run(t, "learn", "bayes"); err == nil {
		t.Fatal("expected unknown topic error")
	}
}

func TestShowConfig(t *testing.T) {
	out, err := run(t, "show", "config", "--alpha", "0.1")
	if err != nil {
		t.Fatalf("show config failed: %v", err)
	}
	if !strings.Contains(out, "No config file loaded") || !strings.Contains(out, "Alpha:           0.1") {
		t.Fatalf("unexpected show config output: %s", out)
	}

	out, err = run(t, "show", "config", "--raw")
	if err != nil {
		t.Fatalf("show config --raw failed: %v", err)
	}
	if !strings.Contains(out, "Alternative") {
		t.Fatalf("expected struct dump, got: %s", out)
	}
}

func TestServeRejectsInvalidAlpha(t *testing.T) {
	out, err := run(t, "serve", "--alpha", "2", "--listen", "127.0.0.1:0")
	if !errors.Is(err, abtest.ErrInvalidSignificanceLevel) {
		t.Fatalf("expected invalid alpha error, got %v", err)
	}
	if !strings.Contains(out, "invalid alpha") {
		t.Fatalf("expected field-specific message, got: %s", out)
	}
}

func TestPlaygroundRejectsInvalidDefaults(t *testing.T) {
	_, err := run(t, "playground", "--alternative", "sideways")
	if !errors.Is(err, abtest.ErrInvalidAlternative) {
		t.Fatalf("expected invalid alternative error, got %v", err)
	}

	_, err = run(t, "playground", "--alpha", "0")
	if !errors.Is(err, abtest.ErrInvalidSignificanceLevel) {
		t.Fatalf("expected invalid alpha error, got %v", err)
	}
}

func TestLegacyConfigFileUsedWithoutConfigFlag(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"format": "json"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&b)
	root.SetErr(&b)
	root.SetArgs([]string{"evaluate", "--logFile", filepath.Join(dir, "a.log"),
		"--n-a", "1000", "--c-a", "100", "--n-b", "1000", "--c-b", "130"})
	if err := root.Execute(); err != nil {
		t.Fatalf("evaluate failed: %v\n%s", err, b.String())
	}
	if !json.Valid(b.Bytes()) {
		t.Fatalf("expected JSON output from legacy config.json, got:\n%s", b.String())
	}
}

func TestLoadedConfigIsLogged(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "abplay.log")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"learn", "--config", filepath.Join(dir, "missing.json"), "--logFile", logPath, "--alpha", "0.02"})
	if err := root.Execute(); err != nil {
		t.Fatalf("learn failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[CONFIG] learn payload=") || !strings.Contains(string(data), `"alpha":0.02`) {
		t.Fatalf("expected config payload in log, got: %s", data)
	}
}

// chdirForTest changes the working directory to dir for the duration of the
// test and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

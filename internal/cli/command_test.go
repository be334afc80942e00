package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/sizetree/internal/cli"
)

func writeFile(t *testing.T, root, rel string, size int) {
	t.Helper()

	fullPath := filepath.Join(root, rel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(fullPath, bytes.Repeat([]byte("x"), size), 0o600); err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	code := cli.New("test").WithOutput(&stdout, &stderr).Main(args)

	return code, stdout.String(), stderr.String()
}

// scenario creates a root with files a (10 bytes), b (20 bytes) and sub/c (5 bytes).
func scenario(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, root, "a", 10)
	writeFile(t, root, "b", 20)
	writeFile(t, root, filepath.Join("sub", "c"), 5)

	return root
}

func lineNames(t *testing.T, out string) []string {
	t.Helper()

	var names []string

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		_, rest, ok := strings.Cut(line, "-- ")
		if !ok {
			t.Fatalf("malformed line %q", line)
		}

		name, _, _ := strings.Cut(rest, " ")
		names = append(names, name)
	}

	return names
}

func Test_Main_Rejects_Wrong_Argument_Count(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := map[string][]string{
		"none":             {},
		"flag only":        {"--single-threaded"},
		"two paths":        {root, root},
		"two paths + flag": {root, root, "--single-threaded"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := execute(t, args...)

			if code != 1 {
				t.Fatalf("exit code: got=%d want=1", code)
			}

			if stdout != "" {
				t.Fatalf("unexpected stdout: %q", stdout)
			}

			if stderr != "ERROR: Please provide a path to a file\n" {
				t.Fatalf("unexpected stderr: %q", stderr)
			}
		})
	}
}

func Test_Main_Prints_Tree(t *testing.T) {
	t.Parallel()

	root := scenario(t)

	code, stdout, stderr := execute(t, root)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	got := lineNames(t, stdout)
	want := []string{filepath.Base(root), "sub", "c", "a", "b"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("lines: got=%v want=%v", got, want)
	}

	if !strings.HasPrefix(stdout, "-- "+filepath.Base(root)) || !strings.Contains(stdout, "| | -- c ") {
		t.Fatalf("unexpected layout:\n%s", stdout)
	}
}

func Test_Main_Single_Threaded_Output_Matches(t *testing.T) {
	t.Parallel()

	root := scenario(t)
	writeFile(t, root, filepath.Join("x", "y", "z"), 123)
	writeFile(t, root, filepath.Join("x", "w"), 7)

	_, parallel, _ := execute(t, root)
	_, single, _ := execute(t, root, "--single-threaded")
	_, again, _ := execute(t, root)

	if parallel != single {
		t.Fatalf("single-threaded output differs:\n%s\nvs\n%s", single, parallel)
	}

	if parallel != again {
		t.Fatal("repeated runs differ")
	}
}

func Test_Main_Fastwalk_Engine_Output_Matches(t *testing.T) {
	t.Parallel()

	root := scenario(t)

	_, walker, _ := execute(t, root)
	_, fast, stderr := execute(t, root, "--engine", "fastwalk")

	if walker != fast {
		t.Fatalf("engine outputs differ:\n%s\nvs\n%s\n%s", walker, fast, stderr)
	}
}

func Test_Main_Missing_Path_Fails_Without_Output(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, filepath.Join(t.TempDir(), "missing"))

	if code != 1 || stdout != "" {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}

	if !strings.HasPrefix(stderr, "ERROR: accessing path") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func Test_Main_Unreadable_Subdirectory_Aborts(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := scenario(t)
	locked := filepath.Join(root, "locked")
	writeFile(t, root, filepath.Join("locked", "f"), 1)

	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	code, stdout, stderr := execute(t, root)

	if code != 1 || stdout != "" {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}

	if !strings.Contains(stderr, "locked") {
		t.Fatalf("error does not name the directory: %q", stderr)
	}
}

func Test_Main_JSON_Output(t *testing.T) {
	t.Parallel()

	code, stdout, _ := execute(t, scenario(t), "-o", "json")

	if code != 0 || !strings.Contains(stdout, `"tree"`) || !strings.Contains(stdout, `"total_bytes": 35`) {
		t.Fatalf("code=%d stdout=%s", code, stdout)
	}
}

func Test_Main_Stats_Go_To_Stderr(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := execute(t, scenario(t), "--stats")

	if code != 0 || strings.Contains(stdout, "Stats:") || !strings.Contains(stderr, "Total files:") {
		t.Fatalf("code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}
}

func Test_Main_Rejects_Invalid_Flags(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	for _, args := range [][]string{
		{root, "--output", "yaml"},
		{root, "--engine", "nope"},
		{root, "--workers", "0"},
		{root, "--bogus"},
	} {
		code, stdout, stderr := execute(t, args...)

		if code != 1 || stdout != "" || !strings.HasPrefix(stderr, "ERROR: ") {
			t.Fatalf("%v: code=%d stdout=%q stderr=%q", args, code, stdout, stderr)
		}
	}
}

func Test_Main_Version(t *testing.T) {
	t.Parallel()

	code, stdout, _ := execute(t, "--version")

	if code != 0 || stdout != "test\n" {
		t.Fatalf("code=%d stdout=%q", code, stdout)
	}
}

func Test_Main_Config_File_Sets_Defaults(t *testing.T) {
	t.Parallel()

	root := scenario(t)
	config := filepath.Join(t.TempDir(), "sizetree.ini")

	if err := os.WriteFile(config, []byte("[sizetree]\noutput = json\nworkers = 2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, stdout, _ := execute(t, root, "--config", config)
	if !strings.Contains(stdout, `"workers": 2`) {
		t.Fatalf("config not applied:\n%s", stdout)
	}

	_, stdout, _ = execute(t, root, "--config", config, "--output", "tree")
	if !strings.HasPrefix(stdout, "-- ") {
		t.Fatalf("flag did not override config:\n%s", stdout)
	}
}

func Test_LoadConfig_Missing_File_Fails(t *testing.T) {
	t.Parallel()

	if _, err := cli.LoadConfig(filepath.Join(t.TempDir(), "none.ini")); err == nil {
		t.Fatal("expected error")
	}
}

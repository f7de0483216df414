package util

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func testPrompt(prompt string) (string, error) {
	return prompt, nil
}

var vRegexp = regexp.MustCompile(`^\d+\.\d+\.\d+`)

func TestVersionString(t *testing.T) {
	vs := VersionString()
	if !vRegexp.MatchString(vs) {
		t.Fatalf("util: version string '%s' is invalid", vs)
	}
}

func TestChangePassPrompter(t *testing.T) {
	prev := PassPrompt
	defer func() { PassPrompt = prev }()

	PassPrompt = testPrompt
	password, err := PassPrompt("password")
	if err != nil {
		t.Fatalf("Failed to read password: %v", err)
	}

	if password != "password" {
		t.Fatalf("Expected prompter to return 'password', but instead got '%s'.",
			password)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	existingFile := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(existingFile, []byte("hello"), 0644); err != nil {
		t.Fatalf("%v", err)
	}

	if ok, _ := Exists(existingFile); !ok {
		t.Fatal("util: Exists failed to find the test file")
	} else if ok, checked := Exists(filepath.Join(dir, "ENOENT")); ok || !checked {
		t.Fatal("util: Exists should fail to find the test file")
	}
}

func TestErrorf(t *testing.T) {
	Errorf("testing Errorf")
	Errorf("testing Errorf\n")
	Warnf("testing %s", "Warnf")
	Infof("testing %s", "Infof")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.out")
	if err := WriteFile([]byte("hello"), path); err != nil {
		t.Fatalf("%v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("%v", err)
	} else if string(data) != "hello" {
		t.Fatalf("util: expected 'hello', have '%s'", data)
	}
}

func TestReadLine(t *testing.T) {
	defer SetInput(nil)

	SetInput(strings.NewReader("  github  \nlast"))
	line, err := ReadLine("Website: ")
	if err != nil {
		t.Fatalf("%v", err)
	} else if line != "github" {
		t.Fatalf("util: expected 'github', have '%s'", line)
	}

	// A final line without a newline is still returned.
	line, err = ReadLine("Website: ")
	if err != nil {
		t.Fatalf("%v", err)
	} else if line != "last" {
		t.Fatalf("util: expected 'last', have '%s'", line)
	}

	if _, err = ReadLine("Website: "); err == nil {
		t.Fatal("util: ReadLine should fail at EOF")
	}
}

func TestConfirm(t *testing.T) {
	defer SetInput(nil)

	var answers = map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"yep\n": false,
	}

	for in, want := range answers {
		SetInput(strings.NewReader(in))
		ok, err := Confirm("Overwrite")
		if err != nil {
			t.Fatalf("%v", err)
		} else if ok != want {
			t.Fatalf("util: Confirm(%q) = %v, want %v", in, ok, want)
		}
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tty")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer f.Close()

	if w := TerminalWidth(int(f.Fd())); w != 80 {
		t.Fatalf("util: expected fallback width of 80, have %d", w)
	}
}

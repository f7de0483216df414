// Package util contains utility code common to the passmgr programs.
package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gokyle/readpass"
	"golang.org/x/crypto/ssh/terminal"
)

// Version contains the current version of the passmgr tools. See
// semver.org for a description of this format.
var Version = struct {
	Major int
	Minor int
	Patch int
	Label string
}{1, 0, 0, ""}

// VersionString returns a formatted semver structure from Version.
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d%s", Version.Major,
		Version.Minor, Version.Patch, Version.Label)
}

// A PassPrompt is a function that takes a string to display to the
// user, and returns the user's input without echoing it.
var PassPrompt = readpass.PasswordPrompt

var input = bufio.NewReader(os.Stdin)

// SetInput changes where ReadLine and Confirm read from. This should
// only be used in testing. If nil is passed, os.Stdin will be used.
func SetInput(r io.Reader) {
	if r == nil {
		r = os.Stdin
	}
	input = bufio.NewReader(r)
}

// Exists is a convenience function that returns a pair of booleans
// indicating whether a file exists or whether an error occurred
// checking the file.
func Exists(path string) (bool, bool) {
	if _, err := os.Stat(path); err == nil {
		return true, true
	} else if os.IsNotExist(err) {
		return false, true
	}
	return false, false
}

func emit(w io.Writer, prefix, m string, args ...interface{}) {
	m = prefix + m
	if m[len(m)-1] != '\n' {
		m += "\n"
	}
	fmt.Fprintf(w, m, args...)
}

// Errorf is a convenience function for printing errors and warnings
// in the standard format used by this project.
func Errorf(m string, args ...interface{}) {
	emit(os.Stderr, "[!] ", m, args...)
}

// Warnf prints a warning that does not stop the current operation.
func Warnf(m string, args ...interface{}) {
	emit(os.Stderr, "[!] WARNING: ", m, args...)
}

// Infof prints a status line to standard output.
func Infof(m string, args ...interface{}) {
	emit(os.Stdout, "[+] ", m, args...)
}

// WriteFile is a convenience function that transparently handles
// writing to a file or stdout as necessary.
func WriteFile(data []byte, path string) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLine reads a line of input from the user.
func ReadLine(prompt string) (line string, err error) {
	fmt.Print(prompt)
	line, err = input.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			err = nil
		} else {
			return
		}
	}
	line = strings.TrimSpace(line)
	return
}

// Confirm asks a yes/no question; only "y" or "yes" (in any case)
// count as yes.
func Confirm(prompt string) (bool, error) {
	answer, err := ReadLine(prompt + " (y/n)? ")
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// TerminalWidth returns the width of the terminal on fd, or 80 if it
// can't be determined.
func TerminalWidth(fd int) int {
	w, _, err := terminal.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Clip copies text to the system clipboard.
func Clip(text string) error {
	return clipboard.WriteAll(text)
}

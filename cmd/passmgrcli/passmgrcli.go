// passmgrcli is an interactive shell over a credential store. It
// offers the same three actions as the password manager form:
// generate, save, and search.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kisom/passmgr/common/config"
	"github.com/kisom/passmgr/common/store"
	"github.com/kisom/passmgr/common/util"
)

var defaultTimeout = 5 * time.Minute

// errQuit is returned by the quit command to stop the input loop.
var errQuit = errors.New("quit")

func readCommands(prompt string, input chan string, proceed chan bool) {
	for {
		line, err := util.ReadLine(prompt)
		if err != nil {
			if err != io.EOF {
				util.Errorf("%v", err)
			}
			close(input)
			return
		}

		if line == "" {
			continue
		}

		input <- line
		_, ok := <-proceed
		if !ok {
			return
		}
	}
}

// processCommand runs a single command line, returning false if the
// shell should exit.
func processCommand(sh *shell, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}

	cmd := args[0]
	args = args[1:]

	f, ok := dispatch[cmd]
	if !ok {
		util.Errorf("%s is not a valid command.", cmd)
		return true
	}

	err := f(sh, args)
	if err == errQuit {
		return false
	} else if err != nil {
		util.Errorf("%s", store.Describe(err))
	}
	return true
}

func inputLoop(sh *shell, timeout time.Duration) {
	input := make(chan string)
	proceed := make(chan bool)
	defer close(proceed)

	go readCommands(fmt.Sprintf("%s> ", sh.file.Path), input, proceed)

	for {
		select {
		case line, ok := <-input:
			if !ok {
				fmt.Println()
				return
			}
			if !processCommand(sh, line) {
				return
			}
			proceed <- true
		case <-time.After(timeout):
			fmt.Println("\n\n[+] Idle timeout; exiting.")
			return
		}
	}
}

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to config file")
	storePath := flag.String("f", "", "path to credential store")
	email := flag.String("e", "", "default email or username")
	flag.DurationVar(&defaultTimeout, "t", defaultTimeout, "idle `timeout`")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		util.Errorf("Failed to load %s: %v", *cfgPath, err)
		os.Exit(1)
	}

	if *storePath == "" {
		*storePath = cfg.StorePath()
	}

	if *email == "" {
		*email = cfg.Email
	}

	sh := newShell(store.Open(*storePath), *email)
	fmt.Printf("passmgr %s; type 'help' for a list of commands.\n",
		util.VersionString())
	inputLoop(sh, defaultTimeout)
}

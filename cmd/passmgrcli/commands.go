package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kisom/passmgr/common/password"
	"github.com/kisom/passmgr/common/store"
	"github.com/kisom/passmgr/common/util"
)

// A shell holds the state of the password form between commands: the
// default email and the most recently generated password.
type shell struct {
	file      *store.File
	email     string
	generated string
}

func newShell(f *store.File, email string) *shell {
	return &shell{file: f, email: email}
}

var dispatch map[string]func(*shell, []string) error

func init() {
	dispatch = map[string]func(*shell, []string) error{
		"clear":    clearTerm,
		"email":    setEmail,
		"generate": generate,
		"help":     help,
		"list":     listWebsites,
		"quit":     quitProgram,
		"remove":   removeWebsite,
		"save":     saveWebsite,
		"search":   searchWebsite,
	}
}

func quitProgram(sh *shell, args []string) error {
	return errQuit
}

func clearTerm(sh *shell, args []string) error {
	fmt.Println("\033[H\033[2J")
	return nil
}

func setEmail(sh *shell, args []string) error {
	if len(args) == 0 {
		fmt.Printf("Email: %s\n", sh.email)
		return nil
	} else if len(args) > 1 {
		return errors.New("only one email may be specified")
	}

	sh.email = args[0]
	return nil
}

func generate(sh *shell, args []string) error {
	sh.generated = password.Generate()
	fmt.Println(sh.generated)

	if err := util.Clip(sh.generated); err != nil {
		util.Warnf("failed to copy to clipboard: %v", err)
	}
	return nil
}

func dumpKeys(keys []string) {
	for i := range keys {
		fmt.Println(keys[i])
	}
}

func dumpFmtKeys(keys []string, w int) {
	// Two columns, indent a tab.
	split := w/2 - 8
	first := fmt.Sprintf("\t%%-%ds", split)

	for i := 1; i < len(keys)+1; i++ {
		if (i % 2) == 1 {
			fmt.Printf(first, keys[i-1])
		} else {
			fmt.Println(keys[i-1])
		}
	}
	if len(keys)%2 == 1 {
		fmt.Printf("\n")
	}
}

// matchWebsites returns the names containing any of the patterns, or
// all names if there are no patterns.
func matchWebsites(names, patterns []string) []string {
	if len(patterns) == 0 {
		return names
	}

	var keys []string
	for _, name := range names {
		for _, pat := range patterns {
			if strings.Contains(name, store.Normalize(pat)) {
				keys = append(keys, name)
				break
			}
		}
	}
	return keys
}

func listWebsites(sh *shell, args []string) error {
	names, err := sh.file.List()
	if err != nil {
		return err
	}

	keys := matchWebsites(names, args)
	var max int
	for _, k := range keys {
		if len(k) > max {
			max = len(k)
		}
	}

	w := util.TerminalWidth(int(os.Stdout.Fd()))
	fmt.Printf("Credential store: %d websites\n", len(keys))
	if max > w/2-8 {
		dumpKeys(keys)
	} else {
		dumpFmtKeys(keys, w)
	}
	return nil
}

func searchWebsite(sh *shell, args []string) error {
	if len(args) == 0 {
		return errors.New("no website specified")
	}

	for _, website := range args {
		rec, err := sh.file.Lookup(website)
		if err != nil {
			if errors.Is(err, store.ErrNoStore) {
				return err
			}
			util.Errorf("%s: %s", store.Normalize(website), store.Describe(err))
			continue
		}

		fmt.Printf("%s\n\tEmail: %s\n\tPassword: %s\n",
			store.Normalize(website), rec.Email, rec.Password)
	}
	return nil
}

// saveWebsite stores the last generated password, or a prompted one,
// under the website. An email given after the website replaces the
// default email for this entry.
func saveWebsite(sh *shell, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: save website [email]")
	}

	email := sh.email
	if len(args) == 2 {
		email = args[1]
	}

	pw := sh.generated
	if pw == "" {
		var err error
		pw, err = util.PassPrompt("Password: ")
		if err != nil {
			return err
		}
	}

	p, err := sh.file.Propose(args[0], store.Record{Email: email, Password: pw})
	if err != nil {
		return err
	}

	if p.Fresh {
		if ok, _ := util.Exists(sh.file.Path); ok {
			util.Warnf("%s can't be read; saving will replace it.", sh.file.Path)
			ok, err = util.Confirm("Replace the data file")
			if err != nil {
				return err
			} else if !ok {
				fmt.Println("Not saving.")
				return nil
			}
		}
	}

	if p.Overwrites() {
		fmt.Println(p.Question())
		ok, err := util.Confirm("Overwrite")
		if err != nil {
			return err
		} else if !ok {
			fmt.Println("Not overwriting.")
			return nil
		}
	}

	if err = p.Commit(); err != nil {
		return err
	}

	// The form clears the password once it has been saved.
	sh.generated = ""
	util.Infof("Stored %s.", p.Website)
	return nil
}

func removeWebsite(sh *shell, args []string) error {
	if len(args) == 0 {
		return errors.New("no website specified")
	}

	for _, website := range args {
		if err := sh.file.Remove(website); err != nil {
			return err
		}
		fmt.Println("Removed", store.Normalize(website))
	}
	return nil
}

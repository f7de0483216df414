// passmgr generates passwords and stores website credentials in a
// JSON file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/kisom/passmgr/common/config"
	"github.com/kisom/passmgr/common/password"
	"github.com/kisom/passmgr/common/store"
	"github.com/kisom/passmgr/common/util"
)

type command struct {
	RequiredArgc int
	Run          func(*store.File, *options) error
	Args         []string
}

var commandSet = map[string]command{
	"generate": {0, generate, nil},
	"search":   {1, search, []string{"website"}},
	"save":     {1, save, []string{"website"}},
	"list":     {0, list, nil},
	"remove":   {1, remove, []string{"website"}},
}

type options struct {
	Args      []string
	Clip      bool
	Overwrite bool
	Generate  bool
	Email     string
	Password  string
	QR        string
}

// errDeclined is returned when the user doesn't confirm an
// overwrite. It isn't a failure.
var errDeclined = errors.New("not overwriting")

func clip(opts *options, secret string) {
	if !opts.Clip {
		return
	}

	if err := util.Clip(secret); err != nil {
		util.Warnf("failed to copy to clipboard: %v", err)
		return
	}
	util.Infof("Password copied to clipboard.")
}

func generate(f *store.File, opts *options) error {
	pw := password.Generate()
	fmt.Println(pw)
	clip(opts, pw)
	return nil
}

func search(f *store.File, opts *options) error {
	website := opts.Args[0]
	rec, err := f.Lookup(website)
	if err != nil {
		return err
	}

	fmt.Println(store.Normalize(website))
	fmt.Printf("Email: %s\nPassword: %s\n", rec.Email, rec.Password)
	clip(opts, rec.Password)

	if opts.QR != "" {
		png, err := rec.ExportQR()
		if err != nil {
			return err
		}
		return util.WriteFile(png, opts.QR)
	}
	return nil
}

// readPassword returns the password to store, prompting for one if
// it wasn't given on the command line. An empty answer generates a
// password.
func readPassword(opts *options) (pw string, generated bool, err error) {
	if opts.Generate {
		return password.Generate(), true, nil
	}

	if opts.Password != "" {
		return opts.Password, false, nil
	}

	pw, err = util.PassPrompt("Password (empty to generate): ")
	if err != nil {
		return "", false, err
	}

	if pw == "" {
		return password.Generate(), true, nil
	}
	return pw, false, nil
}

func save(f *store.File, opts *options) error {
	pw, generated, err := readPassword(opts)
	if err != nil {
		return err
	}

	rec := store.Record{Email: opts.Email, Password: pw}
	p, err := f.Propose(opts.Args[0], rec)
	if err != nil {
		return err
	}

	if p.Fresh {
		if ok, _ := util.Exists(f.Path); ok {
			util.Warnf("%s couldn't be read and will be replaced", f.Path)
		}
	}

	if p.Overwrites() && !opts.Overwrite {
		fmt.Println(p.Question())
		ok, err := util.Confirm("Overwrite")
		if err != nil {
			return err
		} else if !ok {
			return errDeclined
		}
	}

	if err = p.Commit(); err != nil {
		return err
	}

	if generated {
		fmt.Printf("Password: %s\n", pw)
	}
	clip(opts, pw)
	util.Infof("Stored %s.", p.Website)
	return nil
}

func list(f *store.File, opts *options) error {
	names, err := f.List()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("no websites")
		return nil
	}

	fmt.Printf("%d entries\n\n", len(names))
	fmt.Println("Websites:")
	for _, name := range names {
		fmt.Printf("\t%s\n", name)
	}
	return nil
}

func remove(f *store.File, opts *options) error {
	if err := f.Remove(opts.Args[0]); err != nil {
		return err
	}

	fmt.Println("Removed", store.Normalize(opts.Args[0]))
	return nil
}

// run executes the named command and returns the process exit code.
func run(name string, f *store.File, opts *options) int {
	cmd, ok := commandSet[name]
	if !ok {
		util.Errorf("Unknown command %s.", name)
		return 1
	}

	if len(opts.Args) < cmd.RequiredArgc {
		util.Errorf("Not enough arguments: want %d, have %d.",
			cmd.RequiredArgc, len(opts.Args))
		util.Errorf("Want: %v", cmd.Args)
		return 1
	}

	err := cmd.Run(f, opts)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errDeclined):
		fmt.Println("Not overwriting.")
		return 0
	default:
		util.Errorf("%s", store.Describe(err))
		return 1
	}
}

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to config file")
	doGenerate := flag.Bool("g", false, "generate a password")
	doSave := flag.Bool("s", false, "save a website's credentials")
	doList := flag.Bool("l", false, "list websites")
	doRemove := flag.Bool("r", false, "remove a website")
	doVersion := flag.Bool("V", false, "display version and exit")
	storePath := flag.String("f", "", "path to credential store")
	email := flag.String("e", "", "email or username to store")
	pass := flag.String("p", "", "password to store (prompts if empty)")
	clipExport := flag.Bool("c", false, "copy the password to the clipboard")
	overWrite := flag.Bool("w", false, "overwrite existing entries without asking")
	qrOut := flag.String("qr", "", "write the password as a QR code PNG (- for stdout)")
	flag.Parse()

	if *doVersion {
		fmt.Println("passmgr version", util.VersionString())
		os.Exit(0)
	}

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

	var opts = &options{
		Args:      flag.Args(),
		Clip:      *clipExport,
		Overwrite: *overWrite,
		Email:     *email,
		Password:  *pass,
		QR:        *qrOut,
	}

	var name string
	switch {
	case *doSave:
		name = "save"
		opts.Generate = *doGenerate
	case *doGenerate:
		name = "generate"
	case *doList:
		name = "list"
	case *doRemove:
		name = "remove"
	default:
		name = "search"
	}

	os.Exit(run(name, store.Open(*storePath), opts))
}

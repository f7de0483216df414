package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kisom/passmgr/common/password"
	"github.com/kisom/passmgr/common/store"
	"github.com/kisom/passmgr/common/util"
)

func testStore(t *testing.T) *store.File {
	t.Helper()
	return store.Open(filepath.Join(t.TempDir(), "data.json"))
}

func stubPrompt(t *testing.T, answer string) {
	t.Helper()
	prev := util.PassPrompt
	util.PassPrompt = func(string) (string, error) { return answer, nil }
	t.Cleanup(func() { util.PassPrompt = prev })
}

func TestSaveAndSearch(t *testing.T) {
	f := testStore(t)
	opts := &options{Args: []string{"github"}, Email: "a@b.com", Password: "x1#"}
	if code := run("save", f, opts); code != 0 {
		t.Fatalf("passmgr: save exited with %d", code)
	}

	rec, err := f.Lookup("GITHUB")
	if err != nil {
		t.Fatalf("%v", err)
	} else if rec.Email != "a@b.com" || rec.Password != "x1#" {
		t.Fatalf("passmgr: unexpected record %+v", rec)
	}

	if code := run("search", f, &options{Args: []string{"GitHub"}}); code != 0 {
		t.Fatalf("passmgr: search exited with %d", code)
	}
}

func TestSearchFailures(t *testing.T) {
	f := testStore(t)
	if code := run("search", f, &options{Args: []string{"github"}}); code != 1 {
		t.Fatal("passmgr: search without a store should fail")
	}

	if _, err := f.Upsert("github", store.Record{Password: "x1#"}); err != nil {
		t.Fatalf("%v", err)
	}

	if code := run("search", f, &options{Args: []string{"gitlab"}}); code != 1 {
		t.Fatal("passmgr: search for a missing website should fail")
	}

	if code := run("search", f, &options{}); code != 1 {
		t.Fatal("passmgr: search without a website should fail")
	}
}

func TestSaveGenerates(t *testing.T) {
	f := testStore(t)
	stubPrompt(t, "")

	if code := run("save", f, &options{Args: []string{"github"}}); code != 0 {
		t.Fatalf("passmgr: save exited with %d", code)
	}

	rec, err := f.Lookup("github")
	if err != nil {
		t.Fatalf("%v", err)
	}

	if n := password.Count(rec.Password, password.Digits); n < 2 {
		t.Fatalf("passmgr: expected a generated password, have '%s'", rec.Password)
	}
}

func TestSavePrompted(t *testing.T) {
	f := testStore(t)
	stubPrompt(t, "typed-in")

	if code := run("save", f, &options{Args: []string{"github"}}); code != 0 {
		t.Fatalf("passmgr: save exited with %d", code)
	}

	if rec, err := f.Lookup("github"); err != nil || rec.Password != "typed-in" {
		t.Fatalf("passmgr: expected the prompted password (%+v, %v)", rec, err)
	}
}

func TestSaveOverwrite(t *testing.T) {
	defer util.SetInput(nil)
	f := testStore(t)
	if _, err := f.Upsert("github", store.Record{Email: "a@b.com", Password: "old"}); err != nil {
		t.Fatalf("%v", err)
	}

	opts := &options{Args: []string{"github"}, Email: "a@b.com", Password: "new"}

	util.SetInput(strings.NewReader("n\n"))
	if code := run("save", f, opts); code != 0 {
		t.Fatalf("passmgr: declined save exited with %d", code)
	}
	if rec, _ := f.Lookup("github"); rec.Password != "old" {
		t.Fatal("passmgr: declined overwrite changed the store")
	}

	util.SetInput(strings.NewReader("yes\n"))
	if code := run("save", f, opts); code != 0 {
		t.Fatalf("passmgr: confirmed save exited with %d", code)
	}
	if rec, _ := f.Lookup("github"); rec.Password != "new" {
		t.Fatal("passmgr: confirmed overwrite didn't change the store")
	}

	opts.Password = "forced"
	opts.Overwrite = true
	util.SetInput(strings.NewReader(""))
	if code := run("save", f, opts); code != 0 {
		t.Fatalf("passmgr: forced save exited with %d", code)
	}
	if rec, _ := f.Lookup("github"); rec.Password != "forced" {
		t.Fatal("passmgr: forced overwrite didn't change the store")
	}
}

func TestSaveReplacesCorruptStore(t *testing.T) {
	f := testStore(t)
	if err := os.WriteFile(f.Path, []byte("{"), 0600); err != nil {
		t.Fatalf("%v", err)
	}

	opts := &options{Args: []string{"github"}, Password: "x1#"}
	if code := run("save", f, opts); code != 0 {
		t.Fatalf("passmgr: save exited with %d", code)
	}

	names, err := f.List()
	if err != nil {
		t.Fatalf("%v", err)
	} else if len(names) != 1 || names[0] != "GITHUB" {
		t.Fatalf("passmgr: unexpected websites %v", names)
	}
}

func TestSaveValidation(t *testing.T) {
	f := testStore(t)
	if code := run("save", f, &options{Args: []string{"  "}, Password: "x"}); code != 1 {
		t.Fatal("passmgr: save with an empty website should fail")
	}

	if ok, _ := util.Exists(f.Path); ok {
		t.Fatal("passmgr: failed save shouldn't create the store")
	}
}

func TestListAndRemove(t *testing.T) {
	f := testStore(t)
	if code := run("list", f, &options{}); code != 1 {
		t.Fatal("passmgr: list without a store should fail")
	}

	for _, site := range []string{"github", "gitlab"} {
		if _, err := f.Upsert(site, store.Record{Password: "x1#"}); err != nil {
			t.Fatalf("%v", err)
		}
	}

	if code := run("list", f, &options{}); code != 0 {
		t.Fatalf("passmgr: list exited with %d", code)
	}

	if code := run("remove", f, &options{Args: []string{"gitlab"}}); code != 0 {
		t.Fatalf("passmgr: remove exited with %d", code)
	}

	if code := run("remove", f, &options{Args: []string{"gitlab"}}); code != 1 {
		t.Fatal("passmgr: removing a missing website should fail")
	}

	names, _ := f.List()
	if len(names) != 1 || names[0] != "GITHUB" {
		t.Fatalf("passmgr: unexpected websites %v", names)
	}
}

func TestSearchQR(t *testing.T) {
	f := testStore(t)
	if _, err := f.Upsert("github", store.Record{Password: "x1#"}); err != nil {
		t.Fatalf("%v", err)
	}

	out := filepath.Join(t.TempDir(), "qr.png")
	if code := run("search", f, &options{Args: []string{"github"}, QR: out}); code != 0 {
		t.Fatalf("passmgr: search exited with %d", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("%v", err)
	} else if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("passmgr: expected a PNG")
	}
}

func TestGenerateAndUnknown(t *testing.T) {
	f := testStore(t)
	if code := run("generate", f, &options{}); code != 0 {
		t.Fatalf("passmgr: generate exited with %d", code)
	}

	if code := run("frobnicate", f, &options{}); code != 1 {
		t.Fatal("passmgr: unknown command should fail")
	}
}

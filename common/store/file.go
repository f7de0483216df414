package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// A File is a credential store persisted as pretty-printed JSON. A
// File holds no state besides its path: every operation reads the
// document from disk, and every change rewrites it. It is not safe
// for use by more than one process at a time.
type File struct {
	Path string
}

// Open returns a File for the store at path. The file doesn't need
// to exist yet.
func Open(path string) *File {
	return &File{Path: path}
}

// Load reads and parses the entire store, normalizing its keys. If
// the file doesn't exist, the error matches ErrNoStore; if it can't be
// parsed, or holds an empty website, an empty password, or two keys
// that normalize to the same website, ErrCorrupt.
func (f *File) Load() (Store, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoStore, f.Path)
		}
		return nil, err
	}

	var s Store
	if err = json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.Path, err)
	}

	// A document containing only "null" parses to a nil map.
	if s == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON object", ErrCorrupt, f.Path)
	}

	// Keys written by hand may not be normalized yet.
	norm := make(Store, len(s))
	for k, rec := range s {
		website := Normalize(k)
		if website == "" {
			return nil, fmt.Errorf("%w: %s: empty website", ErrCorrupt, f.Path)
		} else if rec.Password == "" {
			return nil, fmt.Errorf("%w: %s: %s has no password", ErrCorrupt, f.Path, website)
		} else if _, dup := norm[website]; dup {
			return nil, fmt.Errorf("%w: %s: %s appears more than once", ErrCorrupt, f.Path, website)
		}
		norm[website] = rec
	}
	return norm, nil
}

// Save overwrites the file with the entire store. The write is not
// atomic.
func (f *File) Save(s Store) (err error) {
	if s == nil {
		s = Store{}
	}

	out, err := os.OpenFile(f.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}

// Exists returns true if the website has an entry in the store. A
// missing store file has no entries.
func (f *File) Exists(website string) (bool, error) {
	s, err := f.Load()
	if err != nil {
		if errors.Is(err, ErrNoStore) {
			return false, nil
		}
		return false, err
	}
	return s.Has(website), nil
}

// Lookup returns the record for the website.
func (f *File) Lookup(website string) (Record, error) {
	s, err := f.Load()
	if err != nil {
		return Record{}, err
	}
	return s.Lookup(website)
}

// List returns the sorted names of the websites in the store.
func (f *File) List() ([]string, error) {
	s, err := f.Load()
	if err != nil {
		return nil, err
	}
	return s.Names(), nil
}

// Remove deletes the website's entry from the store.
func (f *File) Remove(website string) error {
	s, err := f.Load()
	if err != nil {
		return err
	}

	key := Normalize(website)
	if !s.Has(key) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	delete(s, key)
	return f.Save(s)
}

// A Proposal is a validated change to a store that hasn't been
// written yet. If Overwrites returns true, the caller should confirm
// with the user before calling Commit.
type Proposal struct {
	// Website is the normalized website name.
	Website string

	// Record is the record that will be written.
	Record Record

	// Existing holds the current record when the proposal
	// overwrites one.
	Existing *Record

	// Fresh is true if the store file was missing or couldn't be
	// parsed; committing the proposal replaces it with a store
	// holding only this record.
	Fresh bool

	file  *File
	store Store
}

// Overwrites returns true if committing the proposal replaces an
// existing record.
func (p *Proposal) Overwrites() bool {
	return p.Existing != nil
}

// Question returns the confirmation message for an overwriting
// proposal.
func (p *Proposal) Question() string {
	return fmt.Sprintf("Your %s account has been added, do you want to change "+
		"the website account details to:\nEmail: %s\nPassword: %s",
		p.Website, p.Record.Email, p.Record.Password)
}

// Commit writes the proposal to the store file.
func (p *Proposal) Commit() error {
	p.store[p.Website] = p.Record
	return p.file.Save(p.store)
}

// Propose prepares storing rec under website. A missing or corrupt
// store file is treated as an empty store. Nothing is written until
// the proposal is committed.
func (f *File) Propose(website string, rec Record) (*Proposal, error) {
	if err := Validate(website, rec); err != nil {
		return nil, err
	}

	p := &Proposal{
		Website: Normalize(website),
		Record:  rec,
		file:    f,
	}

	s, err := f.Load()
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCorrupt):
		s = Store{}
		p.Fresh = true
	default:
		return nil, err
	}
	p.store = s

	if old, ok := s[p.Website]; ok {
		p.Existing = &old
	}
	return p, nil
}

// Upsert stores rec under website without asking, replacing any
// existing record.
func (f *File) Upsert(website string, rec Record) (*Proposal, error) {
	p, err := f.Propose(website, rec)
	if err != nil {
		return nil, err
	}
	return p, p.Commit()
}

package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"rsc.io/qr"
)

var (
	// ErrNotFound is returned when the store file or a website entry
	// doesn't exist.
	ErrNotFound = errors.New("store: not found")

	// ErrNoStore is returned when the store file doesn't exist. It
	// matches ErrNotFound.
	ErrNoStore = fmt.Errorf("%w: no data file", ErrNotFound)

	// ErrCorrupt is returned when the store file can't be parsed.
	ErrCorrupt = errors.New("store: corrupt data file")

	// ErrValidation is returned when a required field is empty.
	ErrValidation = errors.New("store: required field is empty")
)

// A Record stores the account details for a website.
type Record struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ExportQR returns a QR code as a PNG containing the record's
// password.
func (r Record) ExportQR() ([]byte, error) {
	code, err := qr.Encode(r.Password, qr.M)
	if err != nil {
		return nil, err
	}
	return code.PNG(), nil
}

// Normalize returns the key under which a website is stored.
func Normalize(website string) string {
	return strings.ToUpper(strings.TrimSpace(website))
}

// Validate checks that the website and record can be stored.
func Validate(website string, rec Record) error {
	if Normalize(website) == "" {
		return fmt.Errorf("%w: website", ErrValidation)
	}

	if rec.Password == "" {
		return fmt.Errorf("%w: password", ErrValidation)
	}
	return nil
}

// A Store is a set of records indexed by normalized website name.
type Store map[string]Record

// Has returns true if the store contains the website.
func (s Store) Has(website string) bool {
	_, ok := s[Normalize(website)]
	return ok
}

// Lookup returns the record for the website.
func (s Store) Lookup(website string) (Record, error) {
	rec, ok := s[Normalize(website)]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, Normalize(website))
	}
	return rec, nil
}

// Put stores the record, replacing any previous record for the
// website.
func (s Store) Put(website string, rec Record) error {
	if err := Validate(website, rec); err != nil {
		return err
	}

	s[Normalize(website)] = rec
	return nil
}

// Names returns the websites in the store in sorted order.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Describe returns the message shown to the user for an error
// returned by the store.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "Please don't leave any fields empty!"
	case errors.Is(err, ErrNoStore):
		return "No Data File Found."
	case errors.Is(err, ErrNotFound):
		return "No Details for the Website Exists."
	case errors.Is(err, ErrCorrupt):
		return "The data file can't be read."
	default:
		return err.Error()
	}
}

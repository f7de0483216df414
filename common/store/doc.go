// Package store contains the credential store: a single JSON document
// mapping a website name to the email and password used there. The
// whole document is read on every load and rewritten on every save.
package store

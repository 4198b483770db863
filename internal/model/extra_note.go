package model

import (
	"fmt"
	"regexp"
	"strings"

	"mindmark/internal/crypt"
)

// Topic attributes that carry the encryption state of a NOTE extra.
const (
	AttrNoteEncrypted = "extras.note.encrypted"
	AttrNoteHint      = "extras.note.encrypted.hint"
)

// NoteExtra attaches free text to a topic. An encrypted note holds
// ciphertext and is never matched by searches.
type NoteExtra struct {
	text      string
	encrypted bool
	hint      string
}

// NewNoteExtra creates a plain note.
func NewNoteExtra(text string) *NoteExtra {
	return &NoteExtra{text: text}
}

// NewEncryptedNote encrypts plain with password. hint is stored in clear text
// in a topic attribute, so it must fit on one line.
func NewEncryptedNote(plain, password, hint string) (*NoteExtra, error) {
	if strings.ContainsAny(hint, "\r\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAttributeValue, AttrNoteHint)
	}
	sealed, err := crypt.Encrypt(plain, password)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt note: %w", err)
	}
	return &NoteExtra{text: sealed, encrypted: true, hint: hint}, nil
}

// ParseNoteExtra builds a note from its body and the owning topic's attributes.
func ParseNoteExtra(raw string, attrs map[string]string) *NoteExtra {
	note := &NoteExtra{text: raw}
	if attrs[AttrNoteEncrypted] == "true" {
		note.encrypted = true
		note.hint = attrs[AttrNoteHint]
	}
	return note
}

func (e *NoteExtra) Type() ExtraType { return ExtraNote }

func (e *NoteExtra) Value() string { return e.text }

func (e *NoteExtra) Text() string { return e.text }

func (e *NoteExtra) IsEncrypted() bool { return e.encrypted }

func (e *NoteExtra) Hint() string { return e.hint }

// Decrypt returns the clear text of an encrypted note.
func (e *NoteExtra) Decrypt(password string) (string, error) {
	if !e.encrypted {
		return e.text, nil
	}
	return crypt.Decrypt(e.text, password)
}

func (e *NoteExtra) Equal(other Extra) bool {
	o, ok := other.(*NoteExtra)
	return ok && o.text == e.text && o.encrypted == e.encrypted && o.hint == e.hint
}

func (e *NoteExtra) ContainsPattern(_ string, pattern *regexp.Regexp) bool {
	return !e.encrypted && pattern.MatchString(e.text)
}

// Attached mirrors the encryption state into the topic attributes.
func (e *NoteExtra) Attached(t *Topic) {
	if e.encrypted {
		t.attributes.Set(AttrNoteEncrypted, "true")
		if e.hint != "" {
			t.attributes.Set(AttrNoteHint, e.hint)
		} else {
			t.attributes.Delete(AttrNoteHint)
		}
		return
	}
	t.attributes.Delete(AttrNoteEncrypted)
	t.attributes.Delete(AttrNoteHint)
}

func (e *NoteExtra) Detached(t *Topic) {
	t.attributes.Delete(AttrNoteEncrypted)
	t.attributes.Delete(AttrNoteHint)
}

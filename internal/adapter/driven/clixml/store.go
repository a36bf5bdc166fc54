// Package clixml reads credential stores written by Export-Clixml: a
// serialized hashtable whose values are custom objects holding an identity,
// an encrypted secure-string and an encryption type tag.
package clixml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ericfisherdev/credclient/internal/domain/model"
	"github.com/ericfisherdev/credclient/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialSource = (*Document)(nil)

// Document is a parsed credential store. It is read-only and safe to share.
type Document struct {
	root objsNode
}

// LoadStore opens and parses the credential store at path.
func LoadStore(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", driven.ErrStoreNotFound, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", driven.ErrStoreNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", driven.ErrStoreNotFound, path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a credential store from r. UTF-8 and byte-order-marked
// UTF-16 input are accepted; Windows PowerShell writes the latter.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	dec.CharsetReader = transcodedCharset

	var doc Document
	if err := dec.Decode(&doc.root); err != nil {
		return nil, fmt.Errorf("%w: %w", driven.ErrXMLParse, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, fmt.Errorf("%w: %w", driven.ErrXMLParse, err)
	}
	return &doc, nil
}

// transcodedCharset accepts the encodings the input has already been
// converted from. Anything else is rejected rather than misread.
func transcodedCharset(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "utf-16", "utf-16le", "utf-16be", "unicode":
		return input, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

// expectEOF consumes what follows the root element. Only whitespace,
// comments and processing instructions may remain.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after document root", t.Name.Local)
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return errors.New("unexpected text after document root")
			}
		}
	}
}

// Find returns the record stored under name. Entries are scanned in document
// order and the first usable match wins. An entry whose key matches but whose
// value object or member-set is missing is skipped, so a later entry with the
// same key can still satisfy the lookup.
func (d *Document) Find(name string) (model.CredentialRecord, error) {
	for _, e := range d.entries() {
		key, ok := e.key()
		if !ok || key != name {
			continue
		}
		value := e.value()
		if value == nil || value.Members == nil {
			continue
		}
		return value.Members.record(), nil
	}
	return model.CredentialRecord{}, fmt.Errorf("%w: %q", driven.ErrCredentialNotFound, name)
}

// Names returns the distinct entry keys in document order.
func (d *Document) Names() []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, e := range d.entries() {
		key, ok := e.key()
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, key)
	}
	return names
}

// entries flattens the dictionaries of all top-level objects.
func (d *Document) entries() []*entryNode {
	var out []*entryNode
	for i := range d.root.Objects {
		dct := d.root.Objects[i].Dictionary
		if dct == nil {
			continue
		}
		for j := range dct.Entries {
			out = append(out, &dct.Entries[j])
		}
	}
	return out
}

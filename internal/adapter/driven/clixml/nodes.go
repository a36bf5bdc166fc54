package clixml

import (
	"encoding/xml"

	"github.com/ericfisherdev/credclient/internal/domain/model"
)

// Attribute values the export uses to tag the two halves of a hashtable entry.
const (
	entryKeyName   = "Key"
	entryValueName = "Value"
)

// Member names read from a credential object's member-set.
const (
	memberIdentity       = "Identity"
	memberUserName       = "UserName"
	memberValue          = "Value"
	memberEncryptionType = "EncryptionType"
)

// Element names carry no namespace so they match both namespaced exports
// (xmlns="http://schemas.microsoft.com/powershell/2004/04") and bare ones.

// objsNode is the document root.
type objsNode struct {
	XMLName xml.Name     `xml:"Objs"`
	Objects []objectNode `xml:"Obj"`
}

// objectNode is an <Obj>. A hashtable carries a dictionary; a custom object
// carries a member-set.
type objectNode struct {
	Name       string          `xml:"N,attr"`
	Dictionary *dictionaryNode `xml:"DCT"`
	Members    *memberSetNode  `xml:"MS"`
}

type dictionaryNode struct {
	Entries []entryNode `xml:"En"`
}

// entryNode is one <En> of a dictionary: a string-valued key node and an
// object-valued value node, each tagged by its N attribute.
type entryNode struct {
	Strings []stringNode `xml:"S"`
	Objects []objectNode `xml:"Obj"`
}

// stringNode is an <S> scalar.
type stringNode struct {
	Name  string `xml:"N,attr"`
	Value string `xml:",chardata"`
}

type memberSetNode struct {
	Properties []propertyNode `xml:",any"`
}

// propertyNode is any named scalar inside a member-set (<S>, <I32>, <B>, ...).
type propertyNode struct {
	XMLName xml.Name
	Name    string `xml:"N,attr"`
	Value   string `xml:",chardata"`
}

// key returns the entry's key text. ok is false when the entry has no string
// node tagged as the key.
func (e *entryNode) key() (string, bool) {
	for _, s := range e.Strings {
		if s.Name == entryKeyName {
			return s.Value, true
		}
	}
	return "", false
}

// value returns the entry's object node tagged as the value, or nil.
func (e *entryNode) value() *objectNode {
	for i := range e.Objects {
		if e.Objects[i].Name == entryValueName {
			return &e.Objects[i]
		}
	}
	return nil
}

// record builds a credential from the member-set. Identity and UserName both
// set the user name; whichever comes later wins.
func (ms *memberSetNode) record() model.CredentialRecord {
	var rec model.CredentialRecord
	for _, p := range ms.Properties {
		switch p.Name {
		case memberIdentity, memberUserName:
			rec.UserName = p.Value
		case memberValue:
			rec.EncryptedValue = p.Value
		case memberEncryptionType:
			rec.EncryptionType = p.Value
		}
	}
	return rec
}

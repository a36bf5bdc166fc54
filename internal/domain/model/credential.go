package model

// CredentialRecord holds one entry of an exported credential store. UserName
// identifies the account the secret belongs to, EncryptedValue is the
// secure-string envelope (base64 text), and EncryptionType is an informational
// tag copied verbatim from the export.
type CredentialRecord struct {
	UserName       string
	EncryptedValue string
	EncryptionType string
}

// Secret is a credential record whose envelope has been decrypted.
type Secret struct {
	Name           string
	UserName       string
	Password       string
	EncryptionType string
}

package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the version identity of a compiled table: the domain-separated
// SHA-256 of its canonical encoding.
func Hash(records []Record, ns *Namespaces) (string, error) {
	data, err := MarshalTable(records, ns)
	if err != nil {
		return "", fmt.Errorf("schema hash: %w", err)
	}
	return HashBytes(data), nil
}

// HashBytes hashes an already-encoded Schema Table.
func HashBytes(table []byte) string {
	return hashWithDomain(DomainSchema, table)
}

// HashDocument returns the content identity of an encoded document.
func HashDocument(doc []byte) string {
	return hashWithDomain(DomainDocument, doc)
}

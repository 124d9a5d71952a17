package schema

// Version constants for the Schema Table format.
const (
	// TableVersion is the Schema Table format version.
	TableVersion = "1"

	// DomainSchema separates schema table hashes from any other content hash.
	DomainSchema = "provgraph/schema/v1"

	// DomainDocument separates serialized document hashes.
	DomainDocument = "provgraph/document/v1"
)

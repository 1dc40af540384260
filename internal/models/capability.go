package models

// Capabilities is the capability document negotiated for a collection.
type Capabilities struct {
	IsOrdered           bool
	AppendsToEnd        bool
	SupportsRoles       bool
	MembershipIsMutable bool
	MetadataIsMutable   bool
	RestrictedToType    *string
	MaxLength           int
	RuleBasedGeneration bool
}

// DefaultCapabilities returns the fixed base document. Callers overlay the
// collection-specific fields on the returned value.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		IsOrdered:           false,
		AppendsToEnd:        true,
		SupportsRoles:       false,
		MembershipIsMutable: true,
		MetadataIsMutable:   true,
		MaxLength:           -1,
	}
}

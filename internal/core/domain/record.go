package domain

// Attribute is a unique string key mapped to a string value.
type Attribute struct {
	Key string
	Val string
}

// BlobInfo describes a stored blob without its content.
type BlobInfo struct {
	Name string
	Size int
}

// AttrVisitor is called once per attribute during a listing.
// Returning false marks the listing as failed but does not stop it.
type AttrVisitor func(key, val string) bool

// BlobVisitor is called once per blob during a listing.
// Returning false marks the listing as failed but does not stop it.
type BlobVisitor func(name string, size int) bool

// MatchAll is the pattern that selects every blob name.
const MatchAll = "%"

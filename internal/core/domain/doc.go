// Package domain defines the core entities of the blob file store.
//
// This package is the innermost layer of the hexagon. It defines:
//
//   - Mode: how a store file is opened, with its fixed ModePolicy
//   - Attribute and BlobInfo: the two kinds of rows a store file holds
//   - AttrVisitor and BlobVisitor: callbacks used by listings
//   - Sentinel errors shared by every layer
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

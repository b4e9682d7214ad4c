package domain

// Record is a persisted entry for a work item created by this tool.
// Manifests keep records in creation order, parents before children.
// Fields are ordered to minimize memory padding.
type Record struct {
	ParentRemoteID *int   // nil for epics and for items that failed to link
	Title          string // Title sent to the backend
	Type           string // Backend work item type name (e.g. "Product Backlog Item")
	RunID          string // Run that created the item
	RemoteID       int
}

// HasRemoteID reports whether the record points at a real work item.
func (r Record) HasRemoteID() bool {
	return r.RemoteID > 0
}

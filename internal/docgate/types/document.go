package types

// Document is a single entry in the backing store.  Content is opaque to the
// gateway; Size is always derived from Content and never stored separately.
type Document struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	SecurityLevel int    `json:"security_level"`
}

// Size returns the content length in bytes.
func (d Document) Size() int { return len(d.Content) }

// User identifies the caller of a single request.  Users are supplied per
// request and never persisted by the gateway.
type User struct {
	Username       string `json:"username"`
	ClearanceLevel int    `json:"clearance_level"`
}

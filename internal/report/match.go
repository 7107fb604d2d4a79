package report

// DirectoryIndex maps chat directory members by email for identity matching.
type DirectoryIndex struct {
	byEmail map[string]ChatIdentity
}

// NewDirectoryIndex builds an email index over the chat directory members.
// Matching is case-sensitive exact equality; if the directory ever returns
// duplicate emails, the first member wins.
func NewDirectoryIndex(members []ChatIdentity) *DirectoryIndex {
	idx := &DirectoryIndex{byEmail: make(map[string]ChatIdentity, len(members))}
	for _, m := range members {
		if m.Email == "" {
			continue
		}
		if _, exists := idx.byEmail[m.Email]; exists {
			continue
		}
		idx.byEmail[m.Email] = m
	}
	return idx
}

// Lookup returns the chat identity for the given email. A miss is expected
// for users absent from the chat workspace; callers log it as a diagnostic
// and keep processing the user without a mention.
func (d *DirectoryIndex) Lookup(email string) (ChatIdentity, bool) {
	id, ok := d.byEmail[email]
	return id, ok
}

// Len returns the number of indexed members.
func (d *DirectoryIndex) Len() int { return len(d.byEmail) }

package gitrepo

// Diff is the change introduced by HEAD. Text is opaque and never parsed.
type Diff struct {
	Base    string
	Head    string // commit SHA HEAD resolved to
	Initial bool // Base is the empty tree because HEAD has no parent
	Text    string
}

// Size is the diff length in bytes.
func (d Diff) Size() int { return len(d.Text) }

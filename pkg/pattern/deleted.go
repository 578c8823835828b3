package pattern

// DeletedToken describes a token removed by an edit. Offsets refer to the
// text as it was before the edit.
type DeletedToken struct {
	// RemovedText is the full text of the token before removal.
	RemovedText string

	// Key is the key of the pattern that owns the token.
	Key string

	// Matcher is the owning pattern's matcher.
	Matcher Matcher

	// Start is the rune offset where the token began in the pre-edit text.
	Start int

	// End is the rune offset where the token ended in the pre-edit text.
	End int

	// ID is the bound identifier for ID-backed tokens; empty otherwise.
	ID string
}

// Bound reports whether the removed token carried an identifier.
func (d DeletedToken) Bound() bool {
	return d.ID != ""
}

// DeleteNotifier receives deletion notifications.
type DeleteNotifier interface {
	TokenDeleted(info DeletedToken)
}

// NotifierFunc adapts an ordinary function to the DeleteNotifier interface.
type NotifierFunc func(info DeletedToken)

// TokenDeleted implements DeleteNotifier.
func (f NotifierFunc) TokenDeleted(info DeletedToken) {
	f(info)
}

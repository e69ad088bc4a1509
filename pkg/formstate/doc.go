// Package formstate holds the shared state of a form instance.
//
// A Form maps field ids to Field records. Input components (see package
// fields) are handed the Form when they are constructed, register their
// record with AddField on mount and push every interaction through
// UpdateField. Each record moves through three pristine states:
//
//	Untouched -> Touched -> Committed
//
// Only committed records are validated. Validation is declarative: the
// record's Validate string lists rule specifiers (`required|min-5`) that the
// form resolves through its rules.Engine. The first failing rule's message
// becomes the record error.
//
// Missing ids and unknown rule names are configuration errors and are
// returned to the caller; failing rules are expected and only surface as the
// record's Error string.
package formstate

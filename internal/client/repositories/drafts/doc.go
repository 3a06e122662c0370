// Package drafts stores item forms that could not be submitted yet.
//
// A draft is written when a create or update is blocked because the
// visitor is not signed in, so nothing typed is lost across a login. The
// form is kept as JSON in the payload column; ItemID is empty for drafts
// of new items.
package drafts

// Package roster loads the list of people certificates are generated for.
//
// A roster is a two-column file of (name, email) rows with no header unless
// Options.Header says otherwise. Comma-separated text and Excel workbooks
// (.xlsx, first sheet) are accepted.
//
// # Normalization
//
// Names are trimmed and title-cased ("  bob smith " becomes "Bob Smith").
// Emails are trimmed and otherwise left alone. Rows keep their file order
// and duplicates are not removed.
//
// # Malformed Rows
//
// A row with fewer than two fields produces a *MalformedRowError naming the
// row number and the raw fields. By default the first such row aborts the
// load; Options.SkipMalformed collects them in Roster.Skipped instead.
package roster

/*
Package record implements the whitespace-delimited token format shared by every
EIO artifact.

A Writer appends tokens to a stream with a sticky error, so a record is built
with chained calls and checked once on Flush. A Reader pulls tokens back one at
a time and reports malformed or truncated input as *domain.ParseError, keeping
"the stream ended inside a record" (domain.ErrShortRecord) distinct from a
cursor reaching its declared bound (domain.ErrEndOfSequence, see Cursor).
*/
package record

// Package vardecl locates, parses, and rewrites export declarations inside
// shell startup files.
//
// The package operates on files as ordered slices of lines and never touches
// the filesystem. A [Declaration] is a transient view into one line of a
// file's current content; it is produced by [Locate] or [LocateAll] and
// consumed by the command layer for display, or superseded entirely when
// [Apply] rewrites the line.
//
// Mutations are strictly line-local: [Apply] and [Remove] return a new line
// slice in which every line other than the target declaration is identical to
// the input. Applying the same key/value twice yields the same content as
// applying it once.
//
// Values are rendered and parsed through the quoting codec ([Render],
// [Parse]), which guarantees Parse(Render(v)) == v for every value v.
package vardecl

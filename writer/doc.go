// Package writer provides stream.Writer implementations that render
// path-value records as lines of text.
//
// Each record becomes one line
//
//	[prefix]<path><sep><value>
//
// where the path notation depends on the writer: JSON Pointer for
// "pointer", kinded paths for "kpath" and RFC 9535 normalized paths for
// "jsonpath". Values are JSON literals: strings are quoted, numbers keep
// their source text, and empty containers render as {} and [].
//
// Writers are looked up by name with Lookup. Filter restricts any writer to
// the records matching an expression, and Digest summarizes a record set
// instead of printing it.
package writer

// Package jpath provides root-to-leaf paths into JSON documents.
//
// A Path is an ordered sequence of segments, each either an object field
// or an array index. Paths render in three notations:
//
//	p := jpath.Path{jpath.Field("d"), jpath.Field("e.f"), jpath.Index(0)}
//	p.String()   // "/d/e.f/0"         JSON Pointer (RFC 6901)
//	p.KPath()    // `d."e.f"[0]`       kinded path
//	p.JSONPath() // "$['d']['e.f'][0]" normalized JSONPath (RFC 9535)
//
// Pointer tokens escape '~' as "~0" and '/' as "~1".
//
// Pointers can be parsed back with Parse and resolved against a decoded
// document with Resolve.
package jpath

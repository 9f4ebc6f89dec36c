// Package libdiff compares documents by their flattened record sets.
//
// Both documents are streamed through a pointer writer, the resulting lines
// are sorted, and the sorted line lists are diffed line by line. Since the
// record set does not depend on member order, documents that differ only in
// the order of object members compare equal.
package libdiff

// Package stream turns a flat sequence of JSON structural events into
// path-qualified value records.
//
// The pipeline is
//
//	EventReader -> State -> Dispatcher -> Writer
//
// An EventReader (see package source for tokenizers) yields events such as
// BeginObject, Key and String. A State tracks the open containers on an
// explicit stack and computes the root-to-leaf path of every scalar it sees,
// using memory proportional to nesting depth only. A Dispatcher forwards the
// resulting records to a Writer, optionally including markers for empty
// arrays and objects.
//
// # Example
//
//	src := source.NewJSON(os.Stdin)
//	w := writer.NewPointer(os.Stdout)
//	if _, err := stream.Stream(ctx, src, w); err != nil {
//	    return err
//	}
//
// For the document {"a":[1,{}]} the pointer writer produces
//
//	/a/0	1
//
// and, with WithEmptyContainers(true),
//
//	/a/0	1
//	/a/1	{}
//
// # Errors
//
// Every failure is a *Error whose Kind is StructuralError, TokenSourceError
// or WriterError. All three are fatal for the stream: a State that returned
// an error keeps returning it and must be discarded.
//
// # Order
//
// Records are produced in document order by State, but consumers must not
// depend on it: callers may partition or reorder work as long as the set of
// records stays the same.
package stream

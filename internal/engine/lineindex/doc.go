// Package lineindex maintains the start offset of every line of a text.
//
// Starts are stored in fixed-size chunks so that a lookup is a binary search
// over chunk boundaries followed by a binary search inside one small chunk.
// The index is invalidated on every edit and rebuilt lazily on the next
// query. A rebuild keeps every start at or before the lowest edited offset
// and rescans only the tail of the text.
package lineindex

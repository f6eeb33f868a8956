// Package token implements metadata token encoding and row-id allocation.
//
// A token is a 32-bit value combining a table tag and a 1-based row id:
//
//	token := token.NewToken(token.TableTypeDef, 5)
//	token.Table() // TableTypeDef
//	token.RID()   // 5
//
// Row ids occupy the low 24 bits; rid 0 is the "unassigned" sentinel
// throughout the library.
//
// The Allocator mints row ids for newly created entities before
// serialization, one monotonic counter per table:
//
//	var alloc token.Allocator
//	rid := alloc.Next(token.TableTypeDef) // 1, then 2, ...
//
// Allocation is independent of whatever row ids a source binary already
// occupies; the allocator deliberately does not scan existing tables.
package token

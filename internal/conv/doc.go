// Package conv provides checked integer conversions.
//
// Row positions are Go ints while roaring bitmaps and the compressed block
// headers use uint32; these helpers reject values that do not fit instead of
// silently truncating them.
package conv

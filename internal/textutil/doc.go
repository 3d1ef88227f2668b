// Package textutil provides name folding and string similarity for matching
// respondent names against roster names.
//
// Folding applies Unicode case folding and NFC composition so that names
// typed with different capitalisation or decomposed accents compare equal.
// Ratio scores two strings 0..100 by how few single-rune insertions and
// deletions turn one into the other.
package textutil

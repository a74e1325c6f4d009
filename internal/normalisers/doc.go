// Package normalisers provides implementations of the Normaliser interface
// for resume formats, and the Registry that dispatches on filename extension.
//
// A normaliser only extracts raw page text. The Registry then applies the
// shared whitespace rules, computes cumulative page offsets, hashes the
// normalised text and extracts best-effort metadata, so every format
// produces offsets under the same rules.
//
// Normalisers are registered with the Registry at startup.
package normalisers

// Package output encodes run summaries deterministically.
//
// DeterministicEncode produces byte-identical JSON for identical inputs:
//
//  1. Object keys are sorted, including map keys that marshal as text.
//  2. Floats are rounded to at most 6 decimal places.
//  3. Nil fields, and omitempty fields holding zero values, are omitted.
//  4. Values with their own JSON or text marshaling keep that form.
package output

// Package css extracts theme blocks and custom properties from stylesheet text.
//
// Two readings are provided. The brace scanner (ExtractRoot,
// ExtractConditioned, ParseProperties) works on raw text and is what theme
// checks are built on. Parser walks the grammar produced by a real CSS
// tokenizer and is used to cross-check the scanner and to render a
// normalized stylesheet.
//
// Input is trusted: unbalanced braces are reported as "not found" and nothing
// more is attempted.
package css

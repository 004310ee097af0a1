// Package lexer tokenizes RTL template text.
//
// The lexer recognizes the literal tag delimiters {{ and }} in a single
// linear pass and emits five token kinds: TEXT runs, VAR tags, BLOCK_OPEN
// tags ({{#...}}), BLOCK_CLOSE tags ({{/...}}), and MACRO tags ({{@...}}).
// Tag contents are trimmed but otherwise uninterpreted; expression payloads
// and block nesting are the parser's concern.
//
// An opening {{ with no matching }} before end of input produces an
// error-severity lexical diagnostic carrying the offending offset.
package lexer

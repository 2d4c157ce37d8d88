/*
Package templating renders filesystem-based text templates whose content is
produced by walking stored grammars.

Templates are plain text/template files. Full templates end in ".tmpl" and can
be executed by name; partials end in ".part" and are only available to other
templates through {{template}}. Both are hot-reloaded by Refresh, which also
reloads the grammars from the configured GrammarLoader.

Grammar functions:

	{{paragraph "name" 20}}               a paragraph of 20 words
	{{seededParagraph "name" 20 7}}       the same paragraph for the same seed
	{{sentence "name" 12}}                a capitalized paragraph ending in "."
	{{word "name" "noun"}}                one random word of the given type

Generation failures surface as template execution errors. The remaining
functions (repeat, list, randomChoice, randomInt and the integer helpers) are
small utilities for composing output.
*/
package templating

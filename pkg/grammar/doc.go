/*
Package grammar generates run-on paragraphs of text by walking a hand-authored
finite-state grammar.

States are word types (such as "noun" or "verb") and a FollowerTable declares
which types may follow which. The first word of every paragraph is the first
word of the vocabulary; each following word is produced by drawing a successor
type uniformly from the follower table, then drawing a word of that type
uniformly from the Lexicon.

All randomness flows through a single *rand.Rand owned by one generation run.
Supplying a seed with WithSeed makes a run reproducible word for word.
*/
package grammar

// Package document holds the JSON-shaped content trees edited by contentdesk
// and the pure operations over them: merging with a defaults template,
// addressing nested fields by path and editing ordered lists.
//
// Every operation treats its input as immutable. Writes copy only the
// containers along the written path and share all other subtrees with the
// input, so callers can compare subtrees by reference to detect change.
package document

// Package uniuri generates random URL-safe tokens, used for one-shot
// confirmation links.
package uniuri

// Package uniuri generates cryptographically random identifier strings,
// used for receipt references and scan request ids.
package uniuri

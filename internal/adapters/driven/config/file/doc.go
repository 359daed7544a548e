// Package file provides file-backed configuration and prompt storage.
//
// Settings live in a TOML file and prompts in plain-text files, both
// under the redactor config directory (default ~/.redactor). Prompts
// are user-editable: the classification prompt can be tuned without
// rebuilding.
package file

// Package workspace holds the editing state behind one open document.
//
// A [Workspace] keeps the markdown text, the sections last extracted from it
// and the diagram source associated with each section index. Re-extraction
// after an edit is debounced; [Workspace.Flush] forces it. All methods are
// safe for concurrent use and the last write wins.
//
// A [Store] keeps workspaces in memory under random IDs and drops the ones
// that have been idle for longer than a TTL. Nothing is persisted.
package workspace

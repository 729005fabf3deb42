// Package core defines the data model shared by diffr's scan, diff,
// planning, conflict resolution, archival, and execution layers. It holds no
// filesystem or persistence logic of its own — those live in the sibling
// scan, cache, diff, plan, conflict, archive, and execute packages — only the
// types that flow between them and the invariants attached to those types.
package core

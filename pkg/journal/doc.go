// Package journal is the read side of the exporter's log store.
//
// A Backend opens the store and hands back two capabilities: a Cursor that
// seeks, advances and reads the current record, and a Waitable that blocks
// until the store reports activity. The Adapter composes them, applies the
// severity and unit matches, and classifies every advance as Appended,
// NoMore or StructuralChange.
//
// Backends live in subpackages: systemd (libsystemd via sdjournal) and
// journaltest (an in-memory journal with the same match and wake-up rules).
package journal

// Package provision contains the saga coordinator for multi-system account
// registration. One registration creates the durable local account record,
// fans out concurrently to the selected platform adapters, and then applies
// the commit / partial-commit / rollback policy over the settled outcomes.
// The external platforms cannot be locked or rolled back atomically, so the
// local record is the only compensatable step: it is deleted when every
// requested platform fails, and kept with a truthful status map otherwise.
package provision

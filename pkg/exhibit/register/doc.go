// Package register writes periodic CSV snapshots of the full evidence
// register for offline handover paperwork and backup.
//
// The snapshotter exports every stored record through the CSV exporter and
// writes it atomically to a timestamped file. The scheduler runs snapshots on
// a cron expression. Core evidence records are never deleted; snapshots only
// add files.
package register

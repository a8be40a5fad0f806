// Package repositories implements SQLite persistence for the generation history.
//
// [GenerationRepository] implements models.Repository for [models.Generation] with soft deletes via deleted_at
// timestamps; deleted records are excluded from every query.
//
// [HistoryRecorder] sits between the client and the repository: it records each successful generation and,
// after a download, the path the artifact was saved to. When history is disabled it stores nothing.
//
// Sequence numbers provide stable, human-readable ordering (e.g. generation #7) independent of UUIDs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

/*
Package domain contains the core domain models of the sform engine.

It defines the static form description and the immutable state derived from it.
This package is kept pure and free of external dependencies like I/O, rendering or
transport, following Hexagonal Architecture principles.

# Key Entities

  - FormConfig / FieldConfig: the immutable description of fields, constraints and message rules.
  - Snapshot: one settled state (values, per-field messages, form-wide messages).
  - Binding: the projection of a single field handed to a renderer.
  - SnapshotDiff: the observable changes between two snapshots.
  - LifecycleHooks: synchronous callbacks fired by the engine.
*/
package domain

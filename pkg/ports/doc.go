/*
Package ports defines the driven ports (interfaces) of the EIO persistence layer.

These interfaces decouple the agents from the storage backend, allowing the
same geometry and model data agents to run against the filesystem, memory or
Redis.

# Key Interfaces

  - Repository: addresses models by name (list, delete, open a manager).
  - ModelManager: opens the named streams of one model in read or write mode.
  - Stream: one open artifact; write streams are committed on Close.
  - Locker: distributed locking for serializing access to a model across processes.
*/
package ports

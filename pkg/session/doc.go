/*
Package session serializes access to models.

Agents are single-goroutine objects and two agents writing the same model
would interleave artifacts. The Manager hands out one lock per model name,
held in memory with reference counting and, when a ports.Locker is
configured, mirrored across processes.
*/
package session

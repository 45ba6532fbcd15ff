/*
Package observability provides Prometheus instrumentation for the EIO persistence layer.

Agents report records written and read, end-of-sequence wraps and parse
failures; the metrics repository middleware reports streams opened and bytes
moved. All recording methods are safe on a nil *Metrics, so instrumentation
stays optional.
*/
package observability

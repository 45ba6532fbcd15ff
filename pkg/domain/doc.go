/*
Package domain contains the core data model of the EIO persistence layer.

It defines the entities that are serialized into model artifacts, the record
kinds (streams) each agent owns, and the error taxonomy shared by agents and
adapters. This package is kept free of I/O so that adapters and agents can
depend on it without cycles.

# Key Entities

  - GeometryDescriptor: the count header that bounds every geometry cursor.
  - Node, Element, Body, Loop, Boundary: geometry records.
  - ModelDescription, BodyRecord, Constants, Coordinates: model description records.
  - Head, Field: the head/field pair used by every model data category.
  - StreamKind: a named record kind whose value is the artifact suffix.
*/
package domain

// Package core holds the connector's message-handling contracts: the domain
// model, rejection codes, header construction, catalog assembly, the
// handler registry and the service bundle that wires them. Wire formats,
// storage and transports live in sibling packages that depend on core.
package core

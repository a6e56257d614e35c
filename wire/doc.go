// Package wire converts between the connector's domain values and the
// documents exchanged with peers: JSON-LD message headers in, response
// headers and resource or self-description documents out.
package wire

// Package inbound routes decoded protocol messages to registered handlers.
//
// Recoverable conditions (unknown type, undecodable header, response
// construction failure) come back as rejection responses. Contract
// violations and unexpected handler faults are returned as errors and must
// not be turned into protocol rejections by callers.
package inbound

// Package service wires protocol transport to the dice tools.
//
// It is the transport adapter layer: the package knows how to run MCP over stdio
// or HTTP and delegates tool behavior to the handlers in the domain package.
package service

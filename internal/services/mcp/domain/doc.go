// Package domain maps MCP tool calls onto the dice expression engine.
//
// Tools resolve expressions through an Evaluator, which is either the
// in-process engine or a roller gRPC client. Tool outputs mirror the roller
// service responses so MCP clients and gRPC clients see the same data.
package domain

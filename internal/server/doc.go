// Package server implements an MCP (Model Context Protocol) server for
// certificate generation.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin
// and one response per line on stdout. Diagnostics go to the standard
// logger, which the command points at stderr.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - roster_load: Read and normalize a CSV or XLSX roster
//   - certificate_layout: Shape and place a name without writing anything
//   - certificate_render: Write one certificate
//   - certificates_generate: Run a whole batch and return its report
//   - template_grid_overlay: Coordinate grid preview for choosing x/y
//
// certificates_generate never prompts. Existing files are skipped unless
// replace is set.
//
// # Template Caching
//
// Decoded templates and parsed fonts are cached for the lifetime of the
// process, so repeated renders against the same template skip decoding.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error text in data. A batch that fails part way is not a tool failure:
// its report is returned with the error text in the "error" field.
package server

// Package reporter provides the built-in reporter stages.
//
// File and terminal reporters:
//   - "console.reporter:New": human-readable text to stdout or a file
//   - "json.reporter:New": JSON document to stdout or <output_dir>/<ref>.json
//   - "markdown.reporter:New": Markdown to stdout or <output_dir>/<ref>.md
//
// Refs with characters that are awkward in file names are sanitized and get a
// short digest of the original ref appended, so "feature/x" is written to
// feature_x-dfd566c201.json and never to the file of ref "feature_x".
//
// Delivery reporters send the JSON document elsewhere:
//   - "webhook.reporter:New": HTTP POST, optionally through a SOCKS5 proxy
//   - "amqp.reporter:New": publish to a RabbitMQ exchange
//   - "redis.reporter:New": store under a key and push the key to a list
//
// Constructors only decode and validate configuration. Connections are made in
// Generate so that construction never blocks. All reporters register
// themselves in plugin.DefaultCatalog when the package is imported.
package reporter

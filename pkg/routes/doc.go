// Package routes maps local-server HTTP-style requests onto handlers.
// Route holds a plain closure rather than a function-pointer table, and
// Table resolves a request to its handler with a linear scan over the
// registered routes.
package routes

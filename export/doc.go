// Package export writes successful generations to markdown files.
//
// Each file carries a header (generation time in the display zone, market
// focus, the start of the business description), the generated content, and a
// metadata footer with token usage, cost, model, and regional focus. After a
// write the exporter points a "latest" symlink at the new file when the
// platform allows it.
package export

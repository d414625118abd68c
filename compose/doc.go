// Package compose builds the final prompt from a template, the user's input
// and the rendered outreach framework.
//
// Substitution is literal: only the three known placeholders are replaced, in
// a single pass, so braces in user input are copied verbatim and user text
// that happens to look like a placeholder is never expanded.
//
// When the request asks for regional alignment, or the business description
// mentions the configured region, a regional context block is appended and
// the composition is marked as regionally focused.
package compose

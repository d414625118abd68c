// Package configcheck validates prompt configuration documents against a
// JSON schema reflected from the document types.
//
// Unlike template.Store, which silently falls back to the built-in template,
// a Validator reports every problem so operators can fix the file. Legacy
// documents with tiers and outreach_principles at the top level are
// normalized into the framework layout before validation and flagged.
package configcheck

package configcheck

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/randalmurphal/prospectkit/template"
)

// Document is the shape of a prompt configuration file.
type Document struct {
	Framework      template.Framework `json:"framework" jsonschema:"description=Outreach framework rendered into {framework_summary}"`
	PromptTemplate string             `json:"prompt_template" jsonschema:"minLength=1,description=Prompt with {business_desc} {specs} and {framework_summary} placeholders"`
}

func reflectSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(&Document{})
	s.Title = "Prompt configuration"
	return s
}

// Schema returns the JSON schema of Document, indented for display.
func Schema() ([]byte, error) {
	return json.MarshalIndent(reflectSchema(), "", "  ")
}

// compileSchema returns the schema without its $schema and $id URLs so the
// validator does not try to resolve a draft or base it does not know.
func compileSchema() ([]byte, error) {
	s := reflectSchema()
	s.Version = ""
	s.ID = ""
	return json.Marshal(s)
}

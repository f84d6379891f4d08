package services

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/GregMSThompson/energyhub-backend/internal/dto"
	"github.com/GregMSThompson/energyhub-backend/internal/errs"
)

// Presence only: a required field may hold any JSON value except null or a
// blank string. Types, formats and ranges are deliberately not checked.
const createLoanSchemaJSON = `{
	"type": "object",
	"required": ["name", "email", "product", "amount", "term"],
	"definitions": {
		"present": { "not": { "type": "null" }, "pattern": "\\S" }
	},
	"properties": {
		"name":    { "$ref": "#/definitions/present" },
		"email":   { "$ref": "#/definitions/present" },
		"product": { "$ref": "#/definitions/present" },
		"amount":  { "$ref": "#/definitions/present" },
		"term":    { "$ref": "#/definitions/present" }
	}
}`

var createLoanSchema = mustSchema(createLoanSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return schema
}

// validateCreateLoan returns the offending field names alongside the error so
// callers can log them; the client only sees the generic message.
func validateCreateLoan(req dto.CreateLoanRequest) ([]string, error) {
	result, err := createLoanSchema.Validate(gojsonschema.NewGoLoader(req))
	if err != nil {
		return nil, errs.NewValidationError("Invalid request body")
	}
	if result.Valid() {
		return nil, nil
	}

	seen := make(map[string]bool)
	fields := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		f := e.Field()
		if f == "(root)" {
			// "required" errors are reported on the root with the name in details
			if p, ok := e.Details()["property"].(string); ok {
				f = p
			}
		}
		f = strings.TrimPrefix(f, "(root).")
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields, errs.NewValidationError("Missing required fields")
}

package llm

import (
	"testing"

	"github.com/xeipuuv/gojsonschema"
)

type sample struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestValidateAndUnmarshalSuccess(t *testing.T) {
	schemaJSON := `{
		"type": "object",
		"required": ["name", "age"],
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		}
	}`
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}

	var out sample
	if err := validateAndUnmarshal(`{"name":"Ada","age":30}`, schema, &out); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
	if out.Name != "Ada" || out.Age != 30 {
		t.Fatalf("unexpected unmarshal result: %+v", out)
	}
}

func TestValidateAndUnmarshalSchemaMismatch(t *testing.T) {
	schemaJSON := `{
		"type": "object",
		"required": ["name", "age"],
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		}
	}`
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}

	var out sample
	if err := validateAndUnmarshal(`{"name":"Ada"}`, schema, &out); err == nil {
		t.Fatal("expected missing required field to fail validation")
	}
}

func TestValidateAndUnmarshalNoSchema(t *testing.T) {
	var out sample
	if err := validateAndUnmarshal(`{"name":"Ada","age":30}`, nil, &out); err != nil {
		t.Fatalf("expected nil schema to skip validation, got %v", err)
	}
}

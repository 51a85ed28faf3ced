package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// LoadError is the fatal, startup-only failure mode for missing or
// malformed schema sources.
type LoadError struct {
	Source string // "actions" or "policy"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("schema: load %s source: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Structural schemas for the two source documents. Sources are checked
// against these before decoding so a malformed document fails with a
// precise path instead of a half-populated store.
const actionsMetaSchema = `{
  "type": "object",
  "required": ["actions"],
  "properties": {
    "actions": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["description", "parameters"],
        "properties": {
          "description": {"type": "string"},
          "parameters": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "required": ["type", "unit", "min", "max", "brakeable"],
              "properties": {
                "type": {"type": "string"},
                "unit": {"type": "string"},
                "min": {"type": "number"},
                "max": {"type": "number"},
                "brakeable": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

const policyMetaSchema = `{
  "type": "object",
  "required": ["states"],
  "properties": {
    "states": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["description", "scaling", "restrictions"],
        "properties": {
          "description": {"type": "string"},
          "scaling": {
            "type": "object",
            "required": ["speed", "force"],
            "properties": {
              "speed": {"type": "number", "minimum": 0, "maximum": 1},
              "force": {"type": "number", "minimum": 0, "maximum": 1}
            }
          },
          "restrictions": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var (
	actionsValidator = jsonschema.MustCompileString("actions.schema.json", actionsMetaSchema)
	policyValidator  = jsonschema.MustCompileString("policy.schema.json", policyMetaSchema)
)

type actionsDoc struct {
	Actions map[string]ActionSchema `yaml:"actions"`
}

// Load builds a Store from in-memory actions and policy documents.
// Both sources are required; an empty or structurally invalid source
// fails with a *LoadError.
func Load(actionSource, policySource []byte) (*Store, error) {
	if len(actionSource) == 0 {
		return nil, &LoadError{Source: "actions", Err: fmt.Errorf("source is empty")}
	}
	if len(policySource) == 0 {
		return nil, &LoadError{Source: "policy", Err: fmt.Errorf("source is empty")}
	}

	if err := checkStructure(actionsValidator, actionSource); err != nil {
		return nil, &LoadError{Source: "actions", Err: err}
	}
	if err := checkStructure(policyValidator, policySource); err != nil {
		return nil, &LoadError{Source: "policy", Err: err}
	}

	var actions actionsDoc
	if err := yaml.Unmarshal(actionSource, &actions); err != nil {
		return nil, &LoadError{Source: "actions", Err: err}
	}
	var policy PolicySchema
	if err := yaml.Unmarshal(policySource, &policy); err != nil {
		return nil, &LoadError{Source: "policy", Err: err}
	}

	return &Store{actions: actions.Actions, policy: policy}, nil
}

// LoadFiles builds a Store from actions and policy YAML files.
func LoadFiles(actionsPath, policyPath string) (*Store, error) {
	actionSource, err := os.ReadFile(actionsPath)
	if err != nil {
		return nil, &LoadError{Source: "actions", Err: err}
	}
	policySource, err := os.ReadFile(policyPath)
	if err != nil {
		return nil, &LoadError{Source: "policy", Err: err}
	}
	return Load(actionSource, policySource)
}

// checkStructure validates a YAML document against a compiled JSON
// Schema. The document is round-tripped through encoding/json first so
// the validator sees exactly the value shapes it is specified over.
func checkStructure(s *jsonschema.Schema, source []byte) error {
	var doc any
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("document is empty")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	if err := s.Validate(normalized); err != nil {
		return fmt.Errorf("structure: %w", err)
	}
	return nil
}

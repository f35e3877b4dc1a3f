package reboot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/janelia-flyem/lattice/lattice"
)

// ProcedureSchema is the JSON schema for procedures given as JSON, e.g.,
//
//	{"steps": [{"state": "on", "min": [10,10,10], "max": [12,12,12]}]}
const ProcedureSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["steps"],
	"properties": {
		"steps": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["state", "min", "max"],
				"properties": {
					"state": {"enum": ["on", "off"]},
					"min": {"$ref": "#/definitions/point"},
					"max": {"$ref": "#/definitions/point"}
				},
				"additionalProperties": false
			}
		}
	},
	"definitions": {
		"point": {
			"type": "array",
			"items": {"type": "integer"},
			"minItems": 3,
			"maxItems": 3
		}
	}
}`

var procedureSchema = jsonschema.MustCompileString("procedure.json", ProcedureSchema)

type jsonStep struct {
	State string          `json:"state"`
	Min   lattice.Point3d `json:"min"`
	Max   lattice.Point3d `json:"max"`
}

type jsonProcedure struct {
	Steps []jsonStep `json:"steps"`
}

// DecodeJSON reads a JSON procedure, validating it against ProcedureSchema first.
func DecodeJSON(r io.Reader) (*Procedure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("bad JSON procedure: %v", err)
	}
	if err := procedureSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("JSON procedure does not match schema: %v", err)
	}

	var jp jsonProcedure
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("bad JSON procedure: %v", err)
	}
	proc := &Procedure{Steps: make([]Step, len(jp.Steps))}
	for i, js := range jp.Steps {
		ext, err := lattice.NewExtents3d(js.Min, js.Max)
		if err != nil {
			return nil, fmt.Errorf("step %d: %v", i, err)
		}
		proc.Steps[i] = Step{On: js.State == "on", Extents: ext}
	}
	return proc, nil
}

// EncodeJSON writes the procedure in the JSON form read by DecodeJSON.
func (p *Procedure) EncodeJSON(w io.Writer) error {
	jp := jsonProcedure{Steps: make([]jsonStep, len(p.Steps))}
	for i, step := range p.Steps {
		jp.Steps[i] = jsonStep{State: step.state(), Min: step.Extents.MinPoint, Max: step.Extents.MaxPoint}
	}
	return json.NewEncoder(w).Encode(jp)
}

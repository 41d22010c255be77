// Package plan defines the serialized output of a layout run.
//
// A Plan records everything needed to reproduce and consume one generated
// layout: the scene parameters it came from, the seed, and the resulting
// shift list. Plans are written as JSON files by the CLI and stored as
// documents by the HTTP server.
package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/geom"
	"github.com/skysim/skyplan/pkg/layout"
)

// Plan is one generated layout.
type Plan struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Provenance: the configuration the shifts were generated from.
	Kind       layout.Kind   `json:"kind" bson:"kind"`
	Seed       uint64        `json:"seed" bson:"seed"`
	FieldDim   int           `json:"field_dim,omitempty" bson:"field_dim,omitempty"`
	Buffer     int           `json:"buffer,omitempty" bson:"buffer,omitempty"`
	PixelScale float64       `json:"pixel_scale" bson:"pixel_scale"`
	Origin     geom.SkyCoord `json:"origin" bson:"origin"`
	SimpleBBox bool          `json:"simple_bbox,omitempty" bson:"simple_bbox,omitempty"`
	Density    float64       `json:"density,omitempty" bson:"density,omitempty"`
	Separation float64       `json:"separation,omitempty" bson:"separation,omitempty"`

	// Derived geometry, zero for pair layouts.
	UsableArea float64 `json:"usable_area,omitempty" bson:"usable_area,omitempty"`

	// Shifts are the generated offsets in arcsec from the field center.
	Shifts []layout.Shift `json:"shifts" bson:"shifts"`
}

// New creates an empty plan with a fresh ID and timestamp.
func New(kind layout.Kind, seed uint64) Plan {
	return Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Kind:      kind,
		Seed:      seed,
	}
}

// Count returns the number of placed objects.
func (p *Plan) Count() int { return len(p.Shifts) }

// Validate checks that the plan is structurally usable.
func (p *Plan) Validate() error {
	if p.ID == "" {
		return errors.New(errors.ErrCodeInvalidPlan, "plan has no id")
	}
	if _, err := layout.ParseKind(string(p.Kind)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPlan, err, "plan %s", p.ID)
	}
	return nil
}

// Marshal serializes a Plan to pretty-printed JSON bytes.
func Marshal(p Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Plan and validates it.
func Unmarshal(data []byte) (Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return Plan{}, errors.Wrap(errors.ErrCodeInvalidPlan, err, "unmarshal plan")
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// WriteFile writes a Plan to a JSON file.
func WriteFile(p Plan, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Plan from a JSON file.
func ReadFile(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

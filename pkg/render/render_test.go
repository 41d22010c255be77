package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/layout"
	"github.com/skysim/skyplan/pkg/plan"
)

func testPlan() plan.Plan {
	p := plan.New(layout.KindRandomBox, 42)
	p.FieldDim = 300
	p.Buffer = 10
	p.PixelScale = 0.2
	p.Shifts = []layout.Shift{
		{DX: -10, DY: 5},
		{DX: 3, DY: -8},
		{DX: 0, DY: 0},
	}
	return p
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{" svg ", FormatSVG, false},
		{"pdf", FormatPDF, false},
		{"gif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseFormat(%q) err = %v, want INVALID_FORMAT", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("out/plan.svg"); err != nil || f != FormatSVG {
		t.Errorf("FormatFromPath = %q, %v", f, err)
	}
	if _, err := FormatFromPath("plan"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("extensionless path err = %v, want INVALID_FORMAT", err)
	}
	if _, err := FormatFromPath("plan.bmp"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unsupported extension err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := Render(testPlan(), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// PNG magic bytes
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("default render should produce PNG data")
	}
}

func TestRenderSVG(t *testing.T) {
	data, err := Render(testPlan(), Options{Format: FormatSVG})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("SVG output should contain an <svg element")
	}
}

func TestRenderEmptyPlan(t *testing.T) {
	p := plan.New(layout.KindRandomBox, 1)
	p.FieldDim = 100
	p.PixelScale = 0.2

	if _, err := Render(p, Options{}); err != nil {
		t.Fatalf("empty plan should still render: %v", err)
	}
}

func TestRenderBadFormat(t *testing.T) {
	_, err := Render(testPlan(), Options{Format: "webp"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.png")
	if err := WriteFile(testPlan(), path, Options{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(data) == 0 {
		t.Error("rendered file is empty")
	}
}

func TestBoundaryLine(t *testing.T) {
	p := testPlan()
	if pts := boundaryLine(p); len(pts) != 5 {
		t.Errorf("box boundary has %d points, want 5", len(pts))
	}

	p.Kind = layout.KindRandomDisk
	if pts := boundaryLine(p); len(pts) == 0 {
		t.Error("disk boundary should not be empty")
	}

	p.Kind = layout.KindPair
	if pts := boundaryLine(p); pts != nil {
		t.Error("pair layouts have no boundary")
	}

	p.Kind = layout.KindGrid
	p.FieldDim = 0
	if pts := boundaryLine(p); pts != nil {
		t.Error("missing geometry should yield no boundary")
	}
}

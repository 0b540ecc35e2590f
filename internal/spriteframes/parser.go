package spriteframes

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a sprite-frames document.
type Format int

const (
	// FormatYAML is the YAML authoring format
	FormatYAML Format = iota
	// FormatXML is the rootless XML format
	FormatXML
)

// FormatForPath picks the document format from the file extension.
// Unknown extensions are treated as YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML
	default:
		return FormatYAML
	}
}

// ParseFile parses a sprite-frames file and returns the validated document.
//
// Parameters:
//   - path: Path to the document, e.g., "assets/frames/hero.yaml"
//
// Returns:
//   - *Document: The parsed document
//   - error: Read, parse or validation error, or nil if successful
//
// Example:
//
//	doc, err := spriteframes.ParseFile("assets/frames/hero.yaml")
//	if err != nil {
//	    log.Fatalf("Failed to parse sprite frames: %v", err)
//	}
//	fmt.Printf("Animations: %d\n", len(doc.Animations))
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sprite frames file '%s': %w", path, err)
	}

	doc, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document from memory and validates it.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatXML:
		// XML documents have no root element, same as exported reanim files,
		// so wrap the content before decoding
		wrapped := "<spriteframes>" + string(data) + "</spriteframes>"
		if err := xml.Unmarshal([]byte(wrapped), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := doc.normalize(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize converts XML region text into Region values.
func (d *Document) normalize() error {
	for i := range d.Animations {
		anim := &d.Animations[i]
		for j := range anim.Frames {
			frame := &anim.Frames[j]
			if frame.RegionText == "" || len(frame.Region) > 0 {
				continue
			}
			region, err := parseRegion(frame.RegionText)
			if err != nil {
				return fmt.Errorf("animation '%s' frame %d: %w", anim.Name, j, err)
			}
			frame.Region = region
		}
	}
	return nil
}

// parseRegion parses "x,y,w,h".
func parseRegion(text string) ([]int, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("region '%s' must have 4 components", text)
	}
	region := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid region component '%s': %w", p, err)
		}
		region[i] = v
	}
	return region, nil
}

// Validate checks names, rates, durations and regions.
func (d *Document) Validate() error {
	names := make(map[string]bool)
	for i, anim := range d.Animations {
		if anim.Name == "" {
			return fmt.Errorf("animation #%d is missing 'name'", i)
		}
		if names[anim.Name] {
			return fmt.Errorf("duplicate animation '%s'", anim.Name)
		}
		names[anim.Name] = true

		if anim.FPS < 0 {
			return fmt.Errorf("animation '%s' has negative fps %v", anim.Name, anim.FPS)
		}

		for j, frame := range anim.Frames {
			if frame.Duration < 0 {
				return fmt.Errorf("animation '%s' frame %d has negative duration", anim.Name, j)
			}
			if frame.Image != "" && frame.Nested != "" {
				return fmt.Errorf("animation '%s' frame %d sets both 'image' and 'nested'", anim.Name, j)
			}
			if len(frame.Region) != 0 {
				if len(frame.Region) != 4 {
					return fmt.Errorf("animation '%s' frame %d region must be [x, y, w, h]", anim.Name, j)
				}
				if frame.Region[2] <= 0 || frame.Region[3] <= 0 {
					return fmt.Errorf("animation '%s' frame %d region has empty size", anim.Name, j)
				}
			}
		}
	}
	return nil
}

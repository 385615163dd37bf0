// =============================================================================
// POI Reconcile - GPX Writer Module
// =============================================================================
//
// This module turns the geometry file into a GPX 1.1 document so the POIs
// can be loaded onto a GPS device or into a mapping app as waypoints.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <gpx version="1.1" creator="poitool" xmlns="http://www.topografix.com/GPX/1/1">
//     <wpt lat="52.4591" lon="13.2887">   <!-- one per feature with a point -->
//       <name>Kuhstall</name>             <!-- from the title property -->
//       <desc>Der alte Kuhstall</desc>    <!-- from the text property -->
//       <link href="https://..."/>        <!-- from the link property -->
//       <type>Tiere</type>                <!-- from the category property -->
//     </wpt>
//   </gpx>
//
// Coordinates are written with the exact text of the geometry file. Elements
// without a value are left out. Features without a point are skipped.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
	"github.com/ginjaninja78/poi-reconcile/pkg/utils"
)

// GPXNamespace is the namespace of GPX 1.1 documents.
const GPXNamespace = "http://www.topografix.com/GPX/1/1"

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for GPX generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// Creator is written to the creator attribute of the root element.
	// Default: "poitool"
	Creator string

	// Feature property names for each waypoint element, tried in order.
	// Compared case-insensitively.
	NameKeys []string
	DescKeys []string
	LinkKeys []string
	TypeKeys []string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		Creator:               "poitool",
		NameKeys:              []string{"title", "title_en", "ID"},
		DescKeys:              []string{"text", "text_en"},
		LinkKeys:              []string{"link"},
		TypeKeys:              []string{"category", "category_en"},
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates a GPX document from a feature collection.
//
// PARAMETERS:
//   - fc: The features to export.
//   - options: Formatting and property mapping.
//
// RETURNS:
//   - The GPX document as a byte slice.
//   - The number of waypoints written.
func Generate(fc *geometry.FeatureCollection, options GenerateOptions) ([]byte, int) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	doc, written := buildDocument(fc, options)
	writeElement(&buffer, doc, options.Indent, 0)

	return buffer.Bytes(), written
}

// Write generates a GPX document and writes it to path.
//
// RETURNS:
//   - The number of waypoints written.
//   - An error if the file cannot be written.
func Write(path string, fc *geometry.FeatureCollection, options GenerateOptions) (int, error) {
	data, written := Generate(fc, options)

	if err := utils.EnsureParentDir(path); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write GPX file: %w", err)
	}
	return written, nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents an element of the document.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument creates the gpx element with one wpt child per point.
func buildDocument(fc *geometry.FeatureCollection, options GenerateOptions) (XMLElement, int) {
	root := XMLElement{
		XMLName: xml.Name{Local: "gpx"},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "version"}, Value: "1.1"},
			{Name: xml.Name{Local: "creator"}, Value: options.Creator},
			{Name: xml.Name{Local: "xmlns"}, Value: GPXNamespace},
		},
	}

	for _, f := range fc.Features {
		if wpt, ok := buildWaypoint(f, options); ok {
			root.Children = append(root.Children, wpt)
		}
	}

	return root, len(root.Children)
}

// buildWaypoint creates the wpt element of a feature. The child order is
// the one the GPX schema prescribes.
func buildWaypoint(f *geometry.Feature, options GenerateOptions) (XMLElement, bool) {
	point, ok := f.Point()
	if !ok {
		return XMLElement{}, false
	}

	wpt := XMLElement{
		XMLName: xml.Name{Local: "wpt"},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "lat"}, Value: point.Latitude.Text},
			{Name: xml.Name{Local: "lon"}, Value: point.Longitude.Text},
		},
	}

	if name, ok := f.Properties.Lookup(options.NameKeys); ok {
		wpt.Children = append(wpt.Children, createSimpleElement("name", name))
	}
	if desc, ok := f.Properties.Lookup(options.DescKeys); ok {
		wpt.Children = append(wpt.Children, createSimpleElement("desc", desc))
	}
	if link, ok := f.Properties.Lookup(options.LinkKeys); ok {
		wpt.Children = append(wpt.Children, XMLElement{
			XMLName:    xml.Name{Local: "link"},
			Attributes: []xml.Attr{{Name: xml.Name{Local: "href"}, Value: link}},
		})
	}
	if typ, ok := f.Properties.Lookup(options.TypeKeys); ok {
		wpt.Children = append(wpt.Children, createSimpleElement("type", typ))
	}

	return wpt, true
}

// createSimpleElement creates an element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	if err := xml.EscapeText(&buffer, []byte(s)); err != nil {
		return s
	}
	return buffer.String()
}

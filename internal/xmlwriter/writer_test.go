package xmlwriter

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
)

const sampleGeoJSON = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"ID":"1","title":"Gärten & Höfe","text":"Obst <alt>","category":"Garten","link":"https://example.org/?a=1&b=2"},
	 "geometry":{"type":"Point","coordinates":[13.2887,52.4591]}},
	{"type":"Feature","properties":{"ID":"2","title":null,"title_en":"Cowshed"},
	 "geometry":{"type":"Point","coordinates":[13.28890,52.45930]}},
	{"type":"Feature","properties":{"ID":"3","title":"Weide"},
	 "geometry":{"type":"Point","coordinates":[null,null]}}
]}`

func sampleCollection(t *testing.T) *geometry.FeatureCollection {
	t.Helper()
	fc, err := geometry.Decode(strings.NewReader(sampleGeoJSON))
	require.NoError(t, err)
	return fc
}

func TestGenerate(t *testing.T) {
	data, written := Generate(sampleCollection(t), DefaultGenerateOptions())
	assert.Equal(t, 2, written)

	want := xml.Header +
		`<gpx version="1.1" creator="poitool" xmlns="http://www.topografix.com/GPX/1/1">` + "\n" +
		`  <wpt lat="52.4591" lon="13.2887">` + "\n" +
		`    <name>Gärten &amp; Höfe</name>` + "\n" +
		`    <desc>Obst &lt;alt&gt;</desc>` + "\n" +
		`    <link href="https://example.org/?a=1&amp;b=2"/>` + "\n" +
		`    <type>Garten</type>` + "\n" +
		`  </wpt>` + "\n" +
		`  <wpt lat="52.45930" lon="13.28890">` + "\n" +
		`    <name>Cowshed</name>` + "\n" +
		`  </wpt>` + "\n" +
		`</gpx>` + "\n"
	assert.Equal(t, want, string(data))
}

func TestGenerate_IsWellFormed(t *testing.T) {
	data, _ := Generate(sampleCollection(t), DefaultGenerateOptions())

	var doc struct {
		Waypoints []struct {
			Lat  string `xml:"lat,attr"`
			Lon  string `xml:"lon,attr"`
			Name string `xml:"name"`
		} `xml:"wpt"`
	}
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Waypoints, 2)
	assert.Equal(t, "Gärten & Höfe", doc.Waypoints[0].Name)
	assert.Equal(t, "13.28890", doc.Waypoints[1].Lon)
}

func TestGenerate_EmptyCollection(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = false

	data, written := Generate(&geometry.FeatureCollection{}, opts)
	assert.Zero(t, written)
	assert.Equal(t, `<gpx version="1.1" creator="poitool" xmlns="http://www.topografix.com/GPX/1/1"/>`+"\n", string(data))
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "poi.gpx")

	written, err := Write(path, sampleCollection(t), DefaultGenerateOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
}

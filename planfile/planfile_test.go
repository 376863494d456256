package planfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	gobuildplan "github.com/hpcforge/go-buildplan"
)

func samplePlan() *gobuildplan.BuildPlan {
	return &gobuildplan.BuildPlan{
		Root: "fyaml",
		Nodes: []gobuildplan.PlanNode{
			{
				Name:    "cmake",
				Version: "3.30.2",
				Source: gobuildplan.SourceRef{
					URL:    "https://cmake.org/files/cmake.tar.gz",
					SHA256: strings.Repeat("ab", 32),
				},
			},
			{
				Name:    "fyaml",
				Version: "0.2.0",
				Variants: gobuildplan.VariantAssignment{
					"shared": "true",
					"tests":  "false",
				},
				Args: map[string]string{
					"BUILD_SHARED_LIBS":      "ON",
					"CMAKE_Fortran_STANDARD": "2003",
				},
				Source: gobuildplan.SourceRef{
					URL:    "https://github.com/GEOS-ESM/fyaml/archive/refs/tags/v0.2.0.tar.gz",
					SHA256: strings.Repeat("00", 32),
				},
				DependsOn: []string{"cmake"},
			},
		},
	}
}

func sampleDoc() *Document {
	return New(samplePlan(), gobuildplan.Compiler{Name: "gcc", Version: "12.1.0"}, "linux")
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDoc()

	data, err := doc.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "gcc@12.1.0", parsed.Compiler)
	assert.Equal(t, samplePlan(), parsed.Plan())
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := sampleDoc().Marshal()
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := sampleDoc().Marshal()
		require.NoError(t, err)
		if !bytes.Equal(first, again) {
			t.Fatalf("marshal %d differs:\n%s\n%s", i, first, again)
		}
	}
}

func TestDigest(t *testing.T) {
	a, err := sampleDoc().Digest()
	require.NoError(t, err)
	b, err := sampleDoc().Digest()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	changed := sampleDoc()
	changed.Nodes[1].Args["BUILD_SHARED_LIBS"] = "OFF"
	c, err := changed.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fyaml.plan.json")

	require.NoError(t, sampleDoc().WriteFile(path))
	assert.True(t, Exists(path))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fyaml", doc.Root)
	assert.Len(t, doc.Nodes, 2)

	assert.False(t, Exists(filepath.Join(t.TempDir(), "missing.json")))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr string
	}{
		{
			name:    "wrong version",
			mutate:  func(d *Document) { d.Version = 99 },
			wantErr: "unsupported plan file version",
		},
		{
			name:    "empty root",
			mutate:  func(d *Document) { d.Root = "" },
			wantErr: "no root",
		},
		{
			name: "duplicate node",
			mutate: func(d *Document) {
				d.Nodes = append(d.Nodes, d.Nodes[0])
			},
			wantErr: "duplicate plan node",
		},
		{
			name: "dependency out of order",
			mutate: func(d *Document) {
				d.Nodes[0], d.Nodes[1] = d.Nodes[1], d.Nodes[0]
			},
			wantErr: "does not precede it",
		},
		{
			name: "root missing",
			mutate: func(d *Document) {
				d.Root = "other"
			},
			wantErr: "missing from plan nodes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDoc()
			tt.mutate(doc)
			data, err := doc.Marshal()
			require.NoError(t, err)

			_, err = Parse(data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse plan file")
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleDoc().EncodeYAML(&buf))

	var decoded Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "fyaml", decoded.Root)
	assert.Equal(t, "ON", decoded.Nodes[1].Args["BUILD_SHARED_LIBS"])

	var again bytes.Buffer
	require.NoError(t, sampleDoc().EncodeYAML(&again))
	assert.Equal(t, buf.String(), again.String())
}

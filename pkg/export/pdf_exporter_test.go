package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Title:    "SMAN 1 Kwanyar",
		Subtitle: "Rekap Kehadiran — September 2026",
		Headers:  []string{"No", "Nama", "% Hadir"},
		Rows: []map[string]string{
			{"No": "1", "Nama": "Andi Saputra", "% Hadir": "95%"},
		},
		Signature: []string{"Kwanyar, 1 September 2026", "Kepala Sekolah,", "Drs. H. Mahmud", "NIP. 196501011990031001"},
	}

	raw, err := exporter.Render(data)
	require.NoError(t, err)
	assert.True(t, len(raw) > 0)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	exporter := NewPDFExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestSignatureStyleUnderlinesPrincipalName(t *testing.T) {
	block := []string{"Kwanyar, 1 September 2026", "Kepala Sekolah,", "Drs. H. Mahmud", "NIP. 196501011990031001"}
	for i := range block {
		want := ""
		if block[i] == "Drs. H. Mahmud" {
			want = "BU"
		}
		assert.Equal(t, want, signatureStyle(i, len(block)), block[i])
	}
	assert.Equal(t, "", signatureStyle(0, 1))
}

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

func TestKindFromFilename(t *testing.T) {
	kind, err := KindFromFilename("week1.CSV")
	require.NoError(t, err)
	assert.Equal(t, KindCSV, kind)

	kind, err = KindFromFilename("scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, KindPDF, kind)

	_, err = KindFromFilename("photo.png")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestExtract(t *testing.T) {
	entries, err := Extract(KindCSV, []byte(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	_, err = Extract(KindPDF, []byte("definitely not a pdf"))
	assert.ErrorIs(t, err, ErrUnreadableDocument)

	_, err = Extract(Kind("xlsx"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestExtractBatchStopsAtFirstFailure(t *testing.T) {
	files := []File{
		{Name: "a.csv", Kind: KindCSV, Data: []byte(sampleCSV)},
		{Name: "broken.pdf", Kind: KindPDF, Data: []byte("%PDF-garbage")},
		{Name: "c.csv", Kind: KindCSV, Data: []byte(sampleCSV)},
	}

	results, err := ExtractBatch(files)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadableDocument)
	assert.Contains(t, err.Error(), "broken.pdf")
	assert.Nil(t, results)
}

func TestExtractBatchCSVKeepsDefaultWorker(t *testing.T) {
	results, err := ExtractBatch([]File{{Name: "a.csv", Kind: KindCSV, Data: []byte(sampleCSV)}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.csv", results[0].FileName)
	assert.Equal(t, domain.DefaultWorkerMetadata(), results[0].Worker)
	assert.Len(t, results[0].Entries, 3)
}

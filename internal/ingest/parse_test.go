package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func TestParse(t *testing.T) {
	raw := "\xef\xbb\xbfvisit_id , patient_id\n V1 ,PAT-1\n\n , \nV2,PAT-2\n"

	table, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []string{"visit_id", "patient_id"}, table.Header)
	require.Len(t, table.Records, 3)
	assert.Equal(t, 1, table.Records[0].Row)
	assert.Equal(t, "V1", table.Records[0].Fields.Get("visit_id"))
	assert.Equal(t, 2, table.Records[1].Row)
	assert.Equal(t, Row{"visit_id": "", "patient_id": ""}, table.Records[1].Fields)
	assert.Equal(t, 3, table.Records[2].Row)
	assert.Equal(t, "PAT-2", table.Records[2].Fields.Get("patient_id"))
}

func TestParseQuotedFields(t *testing.T) {
	raw := "patient_id,chronic_conditions\nPAT-1,\"Diabetes, Asthma\"\n"

	table, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Diabetes, Asthma", table.Records[0].Fields.Get("chronic_conditions"))
}

func TestParseEmpty(t *testing.T) {
	table, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Records)

	table, err = Parse([]byte("patient_id,full_name\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"patient_id", "full_name"}, table.Header)
	assert.Empty(t, table.Records)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"ragged row", "a,b\n1,2,3\n"},
		{"bare quote", "a,b\n1,x\"y\n"},
		{"unterminated quote", "a,b\n1,\"open\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.NotEmpty(t, parseErr.Error())
		})
	}
}

func TestCheckHeader(t *testing.T) {
	header := []string{"patient_id", "full_name", "gender", "extra"}
	err := CheckHeader([]string{"patient_id", "full_name", "age", "gender", "email"}, header)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"age", "email"}, schemaErr.Missing)
	assert.Equal(t, "Row 0: Missing required columns: age, email", schemaErr.Detail())

	assert.NoError(t, CheckHeader(VisitColumns, append([]string{"notes"}, VisitColumns...)))
}

func TestColumns(t *testing.T) {
	cols, err := Columns(model.EntityPrescriptions)
	require.NoError(t, err)
	assert.Len(t, cols, 12)
	assert.NotContains(t, cols, "doctor_id")

	_, err = Columns(model.EntityDoctors)
	assert.Error(t, err)
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"01/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
		})
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
	_, err = ParseDate("  ")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var v struct {
		At Date `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-03-01"}`), &v))
	assert.Equal(t, 2024, v.At.Year())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-03-01T00:00:00Z"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &v))
	assert.True(t, v.At.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`{"at":12}`), &v))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.May, d.Month())
	require.NoError(t, d.Scan([]byte("2024-06-01")))
	assert.Equal(t, time.June, d.Month())
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	assert.Error(t, d.Scan(42))

	val, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{Search: "  doe ", Page: 0, Limit: 1000}.Normalize()
	assert.Equal(t, "doe", p.Search)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = ListParams{Page: 3, Limit: 10}.Normalize()
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, Pagination{Total: 21, Page: 3, Limit: 10, Pages: 3}, NewPagination(21, p))
	assert.Equal(t, 0, NewPagination(0, p).Pages)
}

func TestStayError(t *testing.T) {
	assert.Empty(t, StayError("OP", 0))
	assert.Equal(t, "OP visits must have length_of_stay = 0", StayError("OP", 2))
	assert.Empty(t, StayError("IP", 1))
	assert.Equal(t, "IP visits must have length_of_stay >= 1", StayError("IP", 0))
	assert.Empty(t, StayError("XX", 3))
}

func TestUpdateRequestsKeepIdentifiers(t *testing.T) {
	name := "Jane Roe"
	p := &Patient{PatientID: "PAT-1", FullName: "Jane Doe"}
	(&UpdatePatientRequest{FullName: &name}).Apply(p)
	assert.Equal(t, "PAT-1", p.PatientID)
	assert.Equal(t, "Jane Roe", p.FullName)

	qty := 5
	rx := &Prescription{PrescriptionID: "PRE-1", VisitID: "V1", PatientID: "P1", DoctorID: "D1", Quantity: 1}
	(&UpdatePrescriptionRequest{Quantity: &qty}).Apply(rx)
	assert.Equal(t, 5, rx.Quantity)
	assert.Equal(t, "D1", rx.DoctorID)
	assert.Equal(t, "V1", rx.VisitID)
}

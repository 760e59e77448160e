package registration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationString(t *testing.T) {
	assert.Equal(t, "NoEndDate", DurationNoEndDate.String())
	assert.Equal(t, "SevenYears", DurationSevenYears.String())
	assert.Equal(t, "TwentyFiveYears", DurationTwentyFiveYears.String())
	assert.Equal(t, "NoEndDate", Duration(3).String())
}

func TestBatchUploadResultJSON(t *testing.T) {
	result := &BatchUploadResult{
		SubmittedRecords: 5,
		AddedRecords:     2,
		UpdatedRecords:   1,
		InvalidRecords:   2,
		WarningMessages:  []string{"Line 3: Missing required fields (VIN or Grantor names)"},
		ProcessedAt:      time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, float64(5), decoded["submittedRecords"])
	assert.Equal(t, float64(3), decoded["processedRecords"])
	assert.Equal(t, float64(2), decoded["addedRecords"])
	assert.Equal(t, float64(1), decoded["updatedRecords"])
	assert.Equal(t, float64(2), decoded["invalidRecords"])
	assert.Len(t, decoded["warningMessages"], 1)
}

func TestRegistrationKey(t *testing.T) {
	rec := &Registration{
		GrantorFirstName:    "John",
		GrantorLastName:     "Smith",
		VIN:                 "ABC1234567890",
		SpgACN:              "123456789",
		GrantorMiddleNames:  "Quincy",
		SpgOrganizationName: "Acme",
	}
	assert.Equal(t, RecordKey{"John", "Smith", "ABC1234567890", "123456789"}, rec.Key())
}

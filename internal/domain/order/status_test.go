package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Status Policy Tests
// ============================================

func TestStatusPolicy_EveryStatusHasEntry(t *testing.T) {
	for _, s := range Statuses() {
		info := s.Info()
		assert.NotEmpty(t, info.Label, "status %s", s)
		assert.NotEmpty(t, info.Description, "status %s", s)
	}
	assert.Len(t, Statuses(), 4)
}

func TestStatusPolicy_EstimatedDays(t *testing.T) {
	assert.Equal(t, 1, StatusConfirmed.Info().EstimatedDays)
	assert.Equal(t, 2, StatusPacking.Info().EstimatedDays)
	assert.Equal(t, 3, StatusOnTheWay.Info().EstimatedDays)
	assert.Equal(t, 0, StatusDelivered.Info().EstimatedDays)
}

func TestStatuses_ProgressionOrder(t *testing.T) {
	assert.Equal(t, []Status{StatusConfirmed, StatusPacking, StatusOnTheWay, StatusDelivered}, Statuses())
}

func TestStatus_InvalidHasEmptyInfo(t *testing.T) {
	assert.False(t, Status(0).Valid())
	assert.Equal(t, StatusInfo{}, Status(0).Info())
	assert.Equal(t, "Status(0)", Status(0).String())
}

// ============================================
// Parsing / Encoding Tests
// ============================================

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "confirmed", input: "confirmed", want: StatusConfirmed},
		{name: "packing", input: "packing", want: StatusPacking},
		{name: "on the way", input: "on-the-way", want: StatusOnTheWay},
		{name: "delivered", input: "delivered", want: StatusDelivered},
		{name: "cancelled is not a status", input: "cancelled", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_JSONUsesWireName(t *testing.T) {
	data, err := json.Marshal(struct {
		Status Status `json:"status"`
	}{StatusOnTheWay})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"on-the-way"}`, string(data))

	var decoded struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"packing"}`), &decoded))
	assert.Equal(t, StatusPacking, decoded.Status)
}

// ============================================
// Transition Tests
// ============================================

func TestCheckTransition_Forward(t *testing.T) {
	noop, err := CheckTransition(StatusConfirmed, StatusPacking)
	require.NoError(t, err)
	assert.False(t, noop)

	noop, err = CheckTransition(StatusPacking, StatusDelivered)
	require.NoError(t, err)
	assert.False(t, noop)
}

func TestCheckTransition_SameStatusIsNoop(t *testing.T) {
	noop, err := CheckTransition(StatusPacking, StatusPacking)
	require.NoError(t, err)
	assert.True(t, noop)
}

func TestCheckTransition_Regression(t *testing.T) {
	_, err := CheckTransition(StatusPacking, StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = CheckTransition(StatusDelivered, StatusOnTheWay)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckTransition_UnknownTarget(t *testing.T) {
	_, err := CheckTransition(StatusConfirmed, Status(42))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

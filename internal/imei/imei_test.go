package imei

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	valid := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical", raw: "359871977331199", want: "359871977331199"},
		{name: "surrounding whitespace", raw: "  355123456789019\n", want: "355123456789019"},
	}
	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
			assert.False(t, id.IsZero())
		})
	}

	invalid := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "too short", raw: "35987197733119"},
		{name: "too long", raw: "3598719773311990"},
		{name: "letters", raw: "35987197733119A"},
		{name: "inner space", raw: "3598719 7331199"},
		{name: "unicode digits", raw: "٣٥٩٨٧١٩٧٧٣٣١١٩٩"},
		{name: "sign", raw: "+35987197733119"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.raw, verr.Value)
			assert.True(t, id.IsZero())
		})
	}
}

func TestValidator(t *testing.T) {
	id, err := Validator{}.Validate(context.Background(), "359871977331199")
	require.NoError(t, err)
	assert.Equal(t, Must("359871977331199"), id)
}

func TestJSON(t *testing.T) {
	var payload struct {
		IMEI IMEI `json:"imei"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"imei":"359871977331199"}`), &payload))
	assert.Equal(t, "359871977331199", payload.IMEI.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"imei":"359871977331199"}`, string(out))

	err = json.Unmarshal([]byte(`{"imei":"12"}`), &payload)
	assert.ErrorIs(t, err, ErrInvalid)
}

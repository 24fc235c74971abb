package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRest(t *testing.T) {
	tests := []struct {
		in      string
		want    RestSeconds
		wantErr bool
	}{
		{in: "90", want: 90},
		{in: "90s", want: 90},
		{in: "1m30s", want: 90},
		{in: "2 min", want: 120},
		{in: "45 seconds", want: 45},
		{in: "", want: 0},
		{in: "-5", wantErr: true},
		{in: "a while", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRest(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRestSecondsJSON(t *testing.T) {
	var ex ExerciseDraft
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Squat","rest":60}`), &ex))
	assert.Equal(t, RestSeconds(60), ex.Rest)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Squat","rest":"1m"}`), &ex))
	assert.Equal(t, RestSeconds(60), ex.Rest)
	assert.Equal(t, time.Minute, ex.Rest.Duration())

	assert.Error(t, json.Unmarshal([]byte(`{"rest":true}`), &ex))
}

func TestRestSecondsTOML(t *testing.T) {
	var doc struct {
		Numeric RestSeconds `toml:"numeric"`
		Text    RestSeconds `toml:"text"`
	}
	_, err := toml.Decode("numeric = 90\ntext = \"1m30s\"\n", &doc)
	require.NoError(t, err)
	assert.Equal(t, RestSeconds(90), doc.Numeric)
	assert.Equal(t, RestSeconds(90), doc.Text)

	_, err = toml.Decode("numeric = -5\n", &doc)
	assert.Error(t, err)
	_, err = toml.Decode("numeric = 1.5\n", &doc)
	assert.Error(t, err)
}

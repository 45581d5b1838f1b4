package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "8.7", "b": 2016, "c": null}`), &v))

	assert.Equal(t, "8.7", v.A.String())
	assert.InDelta(t, 8.7, v.A.Float(), 0.0001)
	assert.Equal(t, "2016", v.B.String())
	assert.Empty(t, v.C.String())
	assert.Zero(t, FlexString("N/A").Float())
}

func TestFlexList(t *testing.T) {
	var v struct {
		List   FlexList `json:"list"`
		Scalar FlexList `json:"scalar"`
		Null   FlexList `json:"null"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"list": ["US", "GB"], "scalar": "JP", "null": null}`), &v))

	assert.Equal(t, FlexList{"US", "GB"}, v.List)
	assert.Equal(t, FlexList{"JP"}, v.Scalar)
	assert.Nil(t, v.Null)
}

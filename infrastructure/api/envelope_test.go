package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelopeV1(t *testing.T) {
	payload, meta, apiErr := decodeEnvelope([]byte(`{"data":[{"id":"c1"}],"meta":{"page":2,"page_size":50,"total":120}}`))
	require.Nil(t, apiErr)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(120), meta.Total)
	assert.JSONEq(t, `[{"id":"c1"}]`, string(payload))
}

func TestDecodeEnvelopeError(t *testing.T) {
	payload, _, apiErr := decodeEnvelope([]byte(`{"error":{"code":"bad_rule","message":"threshold must be positive"}}`))
	assert.Nil(t, payload)
	require.NotNil(t, apiErr)
	assert.Equal(t, "bad_rule", apiErr.Code)
	assert.Equal(t, "bad_rule: threshold must be positive", apiErr.Error())
}

func TestDecodeEnvelopeLegacyShapes(t *testing.T) {
	// Bare array, pre-envelope.
	payload, meta, apiErr := decodeEnvelope([]byte(`[{"id":"v1"}]`))
	assert.Nil(t, apiErr)
	assert.Nil(t, meta)
	assert.JSONEq(t, `[{"id":"v1"}]`, string(payload))

	// Plain object without data/error keys is itself the payload.
	payload, _, apiErr = decodeEnvelope([]byte(`{"validations":[{"id":"v1"}]}`))
	assert.Nil(t, apiErr)
	assert.JSONEq(t, `{"validations":[{"id":"v1"}]}`, string(payload))

	// Empty body.
	payload, _, apiErr = decodeEnvelope(nil)
	assert.Nil(t, apiErr)
	assert.Nil(t, payload)
}

func TestLegacyPayloadUnwrapping(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare array", `[1,2]`, `[1,2]`},
		{"named field", `{"anomalies":[1,2]}`, `[1,2]`},
		{"nested under data", `{"data":{"anomalies":[1,2]}}`, `[1,2]`},
		{"unrelated object", `{"other":[1]}`, `[]`},
		{"garbage", `not json`, `[]`},
		{"empty", ``, `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LegacyPayload([]byte(tc.raw), "anomalies")
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

package client

import (
	"encoding/json"
	"testing"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyVariants(t *testing.T) {
	s := Structured(ldvalue.ObjectBuild().Set("id", ldvalue.String("1")).Build())
	v, ok := s.Structured()
	assert.True(t, ok)
	assert.Equal(t, "1", v.GetByKey("id").StringValue())
	_, ok = s.Raw()
	assert.False(t, ok)

	r := Raw("Internal Server Error")
	text, ok := r.Raw()
	assert.True(t, ok)
	assert.Equal(t, "Internal Server Error", text)
	_, ok = r.Structured()
	assert.False(t, ok)

	var none Body
	assert.Equal(t, BodyNone, none.Kind())
	assert.Equal(t, "", none.String())
}

func TestBodyLookup(t *testing.T) {
	b := parseBody("application/json", []byte(`{"results":{"access_token":{"token":"abc"}},"n":1}`))
	assert.Equal(t, "abc", b.Lookup("results.access_token.token").StringValue())
	assert.True(t, b.Lookup("results.missing.token").IsNull())
	assert.True(t, b.Lookup("n.deeper").IsNull())
	assert.True(t, Raw("{}").Lookup("n").IsNull())
}

func TestBodyJSON(t *testing.T) {
	for _, b := range []Body{
		Structured(ldvalue.ArrayOf(ldvalue.Int(1), ldvalue.String("ü"))),
		Raw("plain text"),
		{},
	} {
		data, err := json.Marshal(b)
		require.NoError(t, err)
		var back Body
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, b.Kind(), back.Kind())
		assert.Equal(t, b.String(), back.String())
	}
}

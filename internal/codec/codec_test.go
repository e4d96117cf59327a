package codec

import (
	"strings"
	"testing"

	"campusperks/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := New("test-secret")

	id := primitive.NewObjectID()
	payload := c.Encode(id)

	decoded, err := c.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestDecodeMalformedPayloads(t *testing.T) {
	c := New("test-secret")
	valid := c.Encode(primitive.NewObjectID())

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not-a-payload",
		"missing tag":     strings.Join(strings.Split(valid, ".")[:2], "."),
		"wrong version":   strings.Replace(valid, "v1.", "v2.", 1),
		"truncated":       valid[:len(valid)-4],
		"extra segment":   valid + ".extra",
		"tampered id":     "v1." + primitive.NewObjectID().Hex() + "." + strings.Split(valid, ".")[2],
		"tampered tag":    strings.Join(strings.Split(valid, ".")[:2], ".") + ".AAAAAAAAAAAAAAAAAAAAAA",
		"non-hex id body": "v1.zzzzzzzzzzzzzzzzzzzzzzzz.AAAAAAAAAAAAAAAAAAAAAA",
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(payload)
			assert.ErrorIs(t, err, errors.ErrMalformedCode)
		})
	}
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	payload := New("secret-a").Encode(primitive.NewObjectID())

	_, err := New("secret-b").Decode(payload)
	assert.ErrorIs(t, err, errors.ErrMalformedCode)
}

func TestPayloadCarriesOnlyTheID(t *testing.T) {
	c := New("test-secret")
	id := primitive.NewObjectID()

	parts := strings.Split(c.Encode(id), ".")
	require.Len(t, parts, 3)
	assert.Equal(t, "v1", parts[0])
	assert.Equal(t, id.Hex(), parts[1])
}

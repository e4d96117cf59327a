package codec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"campusperks/pkg/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	payloadVersion = "v1"
	tagSize        = 16
)

// Codec turns a redemption identity into a scannable payload and back. The
// payload carries only the redemption id plus an HMAC tag so a scanner can
// reject forged or corrupted codes before touching the database. It contains
// no user data and no points.
//
// Format: v1.<hex redemption id>.<base64url HMAC-SHA256 tag, 16 bytes>
type Codec struct {
	secret []byte
}

func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode produces the opaque payload for a redemption id.
func (c *Codec) Encode(redemptionID primitive.ObjectID) string {
	body := payloadVersion + "." + redemptionID.Hex()
	return body + "." + c.sign(body)
}

// Decode parses a scanned payload back into a redemption id. Any parse or
// integrity failure is ErrMalformedCode; Decode never reports whether the
// redemption exists.
func (c *Codec) Decode(payload string) (primitive.ObjectID, error) {
	parts := strings.Split(strings.TrimSpace(payload), ".")
	if len(parts) != 3 || parts[0] != payloadVersion {
		return primitive.NilObjectID, errors.ErrMalformedCode
	}

	body := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(c.sign(body)), []byte(parts[2])) {
		return primitive.NilObjectID, errors.ErrMalformedCode
	}

	id, err := primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return primitive.NilObjectID, errors.ErrMalformedCode
	}

	return id, nil
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:tagSize])
}

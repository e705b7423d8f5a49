package oss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringToSign(t *testing.T) {
	got := StringToSign("PUT", "", "image/jpeg", "Thu, 17 Nov 2005 18:49:58 GMT",
		"moments-bucket", "moments/2025/01/02/1735776000000_0a1b2c3d.jpg")

	want := "PUT\n" +
		"\n" +
		"image/jpeg\n" +
		"Thu, 17 Nov 2005 18:49:58 GMT\n" +
		"/moments-bucket/moments/2025/01/02/1735776000000_0a1b2c3d.jpg"
	assert.Equal(t, want, got)
}

func TestSign_KnownVectors(t *testing.T) {
	// Expected values produced with `openssl dgst -sha1 -hmac <key> -binary | base64`.
	assert.Equal(t, "3nybhbi3iqa8ino29wqQcBydtNk=",
		Sign("key", "The quick brown fox jumps over the lazy dog"))

	s := StringToSign("PUT", "", "image/jpeg", "Thu, 17 Nov 2005 18:49:58 GMT",
		"moments-bucket", "moments/2025/01/02/1735776000000_0a1b2c3d.jpg")
	assert.Equal(t, "HiJna2XmWfddn+cBnUaeWEaZKsg=", Sign("test-secret", s))
}

func TestHTTPDate_IsGMTRegardlessOfZone(t *testing.T) {
	zone := time.FixedZone("UTC+8", 8*60*60)
	local := time.Date(2005, 11, 18, 2, 49, 58, 0, zone)

	assert.Equal(t, "Thu, 17 Nov 2005 18:49:58 GMT", HTTPDate(local))
}

func TestAuthorization(t *testing.T) {
	assert.Equal(t, "OSS id:sig=", Authorization("id", "sig="))
}

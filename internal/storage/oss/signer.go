package oss

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// StringToSign builds the canonical string for a request without
// x-oss-* headers:
//
//	VERB\nContent-MD5\nContent-Type\nDate\n/bucket/objectKey
func StringToSign(method, contentMD5, contentType, date, bucket, objectKey string) string {
	var sb strings.Builder
	sb.WriteString(method)
	sb.WriteByte('\n')
	sb.WriteString(contentMD5)
	sb.WriteByte('\n')
	sb.WriteString(contentType)
	sb.WriteByte('\n')
	sb.WriteString(date)
	sb.WriteString("\n/")
	sb.WriteString(bucket)
	sb.WriteByte('/')
	sb.WriteString(objectKey)
	return sb.String()
}

// Sign returns base64(HMAC-SHA1(secret, stringToSign)).
func Sign(secret, stringToSign string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// HTTPDate formats t as "Mon, 02 Jan 2006 15:04:05 GMT" in UTC, independent
// of the process locale and time zone.
func HTTPDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

func Authorization(accessKeyID, signature string) string {
	return "OSS " + accessKeyID + ":" + signature
}

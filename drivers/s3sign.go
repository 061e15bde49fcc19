package drivers

import (
	"crypto/hmac"
	"crypto/sha1"
	"net/http"
	"time"
)

// AwsAuth holds a static AWS access/secret key pair. Immutable once
// constructed; the client never persists credentials.
type AwsAuth struct {
	Access string
	Secret string
}

// httpDateFormat is the RFC 1123 date layout with a numeric zone, the form
// AWS expects in the Date header covered by the signature.
const httpDateFormat = "Mon, 02 Jan 2006 15:04:05 -0700"

// SignV2 produces the AWS Signature Version 2 string for a request:
// HMAC-SHA1 over the canonical string, base64-encoded. resource is the
// bucket-and-object portion, "<bucket>/<object>". Pure transformation;
// wrong credentials only surface as a rejection from the remote service.
func (a AwsAuth) SignV2(method, resource, httpDate, contentType string) string {
	digest := hmacSHA1([]byte(a.Secret), []byte(stringToSign(method, resource, httpDate, contentType)))
	return encodeBase64(digest)
}

// signedHeaders builds the Date and Authorization headers for a request,
// plus Content-Type when one is covered by the signature. PUT bodies always
// go out with an explicit Content-Length and no Expect header, since legacy
// AWS signing does not tolerate chunked uploads.
func (a AwsAuth) signedHeaders(method, resource, contentType string, now time.Time) http.Header {
	httpDate := now.Format(httpDateFormat)
	headers := http.Header{
		"Date":          {httpDate},
		"Authorization": {"AWS " + a.Access + ":" + a.SignV2(method, resource, httpDate, contentType)},
	}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}
	return headers
}

// stringToSign assembles the canonical string covered by the signature:
//
//	METHOD\n
//	\n                (Content-MD5, always empty here)
//	content-type\n
//	http-date\n
//	/bucket/object
func stringToSign(method, resource, httpDate, contentType string) string {
	return method + "\n" +
		"\n" +
		contentType + "\n" +
		httpDate + "\n" +
		"/" + resource
}

func hmacSHA1(key, message []byte) []byte {
	mac := hmac.New(sha1.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeBase64 encodes data with the standard base64 alphabet and '='
// padding, no line breaks. A trailing group of one real byte emits two
// characters, a group of two emits three; output is then padded to a
// multiple of four.
func encodeBase64(data []byte) string {
	out := make([]byte, 0, (len(data)+2)/3*4)

	full := len(data) / 3 * 3
	for i := 0; i < full; i += 3 {
		chunk := uint32(data[i])<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
		out = append(out,
			base64Alphabet[chunk>>18&0x3F],
			base64Alphabet[chunk>>12&0x3F],
			base64Alphabet[chunk>>6&0x3F],
			base64Alphabet[chunk&0x3F])
	}

	switch len(data) - full {
	case 1:
		chunk := uint32(data[full]) << 16
		out = append(out,
			base64Alphabet[chunk>>18&0x3F],
			base64Alphabet[chunk>>12&0x3F],
			'=', '=')
	case 2:
		chunk := uint32(data[full])<<16 | uint32(data[full+1])<<8
		out = append(out,
			base64Alphabet[chunk>>18&0x3F],
			base64Alphabet[chunk>>12&0x3F],
			base64Alphabet[chunk>>6&0x3F],
			'=')
	}

	return string(out)
}

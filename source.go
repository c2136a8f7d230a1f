package tabbar

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// MaxImageBytes is the maximum accepted size of a decoded base64 payload or
// a remote response body.
const MaxImageBytes = 5 * 1024 * 1024

// supportedMIMETypes lists the accepted image media types, both for data
// URIs and for the Content-Type header of remote responses.
var supportedMIMETypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/svg+xml",
	"image/webp",
}

// SourceKind discriminates the classified image source variants.
type SourceKind int

// The image source variants.
const (
	SourceInvalid SourceKind = iota
	SourceBase64
	SourceRemote
)

// Source is the result of classifying a raw image source string.
type Source struct {
	Kind SourceKind
	// MIME is the declared media type of a base64 source.
	MIME string
	// Payload is the decoded bytes of a base64 source.
	Payload []byte
	// URL is the parsed address of a remote source.
	URL *url.URL
}

// ClassifySource classifies an image source string as either an inline
// base64 data URI, a remote HTTPS address, or an invalid source. Plain HTTP
// addresses are rejected by policy, and an invalid source never triggers a
// network attempt. The base64 payload is size checked against MaxImageBytes.
func ClassifySource(src string) Source {
	if s, ok := classifyDataURI(src); ok {
		return s
	}

	u, err := url.Parse(src)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Source{Kind: SourceInvalid}
	}
	if u.Scheme != "https" {
		return Source{Kind: SourceInvalid}
	}

	return Source{Kind: SourceRemote, URL: u}
}

// classifyDataURI matches src against the data:image/<mime>;base64,<payload>
// form. The prefix comparison is case-insensitive.
func classifyDataURI(src string) (Source, bool) {
	const scheme = "data:"
	if !strings.HasPrefix(strings.ToLower(src), scheme) {
		return Source{}, false
	}

	rest := src[len(scheme):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return Source{Kind: SourceInvalid}, true
	}

	meta := strings.ToLower(rest[:comma])
	if !strings.HasSuffix(meta, ";base64") {
		return Source{Kind: SourceInvalid}, true
	}

	mime := strings.TrimSuffix(meta, ";base64")
	if !SupportedMIME(mime) {
		return Source{Kind: SourceInvalid}, true
	}

	payload, err := base64.StdEncoding.DecodeString(rest[comma+1:])
	if err != nil || len(payload) > MaxImageBytes {
		return Source{Kind: SourceInvalid}, true
	}

	return Source{Kind: SourceBase64, MIME: mime, Payload: payload}, true
}

// SupportedMIME reports whether mime is in the accepted image media type set.
// Any media type parameters are ignored.
func SupportedMIME(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	for _, m := range supportedMIMETypes {
		if mime == m {
			return true
		}
	}
	return false
}

package tabbar

import "fmt"

// ConfigError rejects a whole Configure call. No partial state is committed
// when it is returned.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid tab bar configuration: " + e.Reason
}

// UnknownIDError rejects a single Select or SetBadge call referencing a tab
// id absent from the configured set. The prior state is left untouched.
type UnknownIDError struct {
	Op string
	ID string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("%s: unknown tab id %q", e.Op, e.ID)
}

// SourceError reports an image source that failed classification. It is
// resolved locally to the fallback icon and never reaches the network.
type SourceError struct {
	Source string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("invalid image source %q", truncate(e.Source, 64))
}

// FetchErrorKind discriminates the remote fetch failure modes.
type FetchErrorKind int

// The remote fetch failure modes.
const (
	FetchNetwork FetchErrorKind = iota
	FetchBadStatus
	FetchBadContentType
	FetchTooLarge
	FetchUndecodable
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchNetwork:
		return "network failure"
	case FetchBadStatus:
		return "unexpected http status"
	case FetchBadContentType:
		return "unsupported content type"
	case FetchTooLarge:
		return "response body too large"
	case FetchUndecodable:
		return "undecodable image data"
	}
	return "unknown"
}

// FetchError reports a failed remote image retrieval. It is non-fatal to
// the caller: the resolution service converts it into a fallback display.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

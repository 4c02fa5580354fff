package search

// NoticeLevel classifies a user-visible notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-line message shown to the user in place of, or next to, results.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// NewNotice builds a notice.
func NewNotice(level NoticeLevel, message string) *Notice {
	return &Notice{Level: level, Message: message}
}

// IsError reports whether the notice describes a failure.
func (n *Notice) IsError() bool {
	return n != nil && n.Level == NoticeError
}

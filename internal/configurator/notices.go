package configurator

import (
	"context"
	"sync"
)

// Notice is operator feedback waiting to be shown by the client.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// noticeBox implements submission.Notifier by queueing messages until the
// next state read drains them.
type noticeBox struct {
	mu       sync.Mutex
	notices  []Notice
	scrollTo string
}

func (b *noticeBox) NotifySuccess(_ context.Context, message string) {
	b.push(Notice{Level: NoticeSuccess, Message: message})
}

func (b *noticeBox) NotifyError(_ context.Context, message string) {
	b.push(Notice{Level: NoticeError, Message: message})
}

func (b *noticeBox) ScrollTo(_ context.Context, field string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollTo = field
}

func (b *noticeBox) push(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

func (b *noticeBox) drain() ([]Notice, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	notices, field := b.notices, b.scrollTo
	b.notices, b.scrollTo = nil, ""
	return notices, field
}

package app

import "sync"

// notice is a transient user-facing message from a background operation.
type notice struct {
	Message  string
	Severity string
}

// noticeInbox collects notifications from git calls running off the UI
// goroutine. The renderer drains the newest entry; once-keys suppress the
// repeated variants of the same failure.
type noticeInbox struct {
	mu      sync.Mutex
	entries []notice
	seen    map[string]struct{}
}

func newNoticeInbox() *noticeInbox {
	return &noticeInbox{seen: make(map[string]struct{})}
}

func (n *noticeInbox) add(message, severity string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, notice{Message: message, Severity: severity})
}

func (n *noticeInbox) addOnce(key, message, severity string) {
	n.mu.Lock()
	if _, ok := n.seen[key]; ok {
		n.mu.Unlock()
		return
	}
	n.seen[key] = struct{}{}
	n.mu.Unlock()
	n.add(message, severity)
}

// latest returns the most recent notice, or false when the inbox is empty.
func (n *noticeInbox) latest() (notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.entries) == 0 {
		return notice{}, false
	}
	return n.entries[len(n.entries)-1], true
}

func (n *noticeInbox) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = n.entries[:0]
}

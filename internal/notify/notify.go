// Package notify carries user-visible notifications from the workflows to
// whatever front end is showing them.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type Kind int

const (
	Success Kind = iota
	Failure
	Invalid // rejected before any request was sent
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type Notice struct {
	Kind    Kind
	Title   string
	Message string
	At      time.Time
}

func (n Notice) String() string {
	if n.Title == "" {
		return n.Message
	}
	return n.Title + ": " + n.Message
}

type Notifier interface {
	Notify(Notice)
}

// Func adapts a plain function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

func Succeeded(msg string) Notice { return Notice{Kind: Success, Title: "Success", Message: msg, At: time.Now()} }
func Failed(msg string) Notice    { return Notice{Kind: Failure, Title: "Error", Message: msg, At: time.Now()} }

func Rejected(title, msg string) Notice {
	return Notice{Kind: Invalid, Title: title, Message: msg, At: time.Now()}
}

// Board keeps the most recent notice for a UI to poll.
type Board struct {
	mu   sync.Mutex
	last Notice
	seq  uint64
}

func (b *Board) Notify(n Notice) {
	b.mu.Lock()
	b.last = n
	b.seq++
	b.mu.Unlock()
}

// Latest returns the newest notice and a counter that changes with every post.
func (b *Board) Latest() (Notice, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, b.seq
}

func (b *Board) Clear() {
	b.mu.Lock()
	b.last = Notice{}
	b.mu.Unlock()
}

// Writer prints successes to Out and everything else to Err.
type Writer struct {
	Out io.Writer
	Err io.Writer
}

func (w Writer) Notify(n Notice) {
	dst := w.Out
	if n.Kind != Success && w.Err != nil {
		dst = w.Err
	}
	if dst == nil {
		return
	}
	fmt.Fprintln(dst, n.String())
}

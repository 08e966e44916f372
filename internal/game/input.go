package game

import "sync"

// Command is a discrete player action.
type Command int

const (
	CommandJump Command = iota + 1
	CommandRestart
)

func (c Command) String() string {
	switch c {
	case CommandJump:
		return "jump"
	case CommandRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Queue buffers commands between ticks. Producers may push from any
// goroutine; the owning loop drains it once per tick.
type Queue struct {
	mu      sync.Mutex
	pending []Command
}

func (q *Queue) Push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// Drain folds every pending command into a single Input and empties the
// queue. Repeated commands within a tick collapse into one.
func (q *Queue) Drain() Input {
	q.mu.Lock()
	defer q.mu.Unlock()

	var in Input
	for _, c := range q.pending {
		switch c {
		case CommandJump:
			in.Jump = true
		case CommandRestart:
			in.Restart = true
		}
	}
	q.pending = q.pending[:0]
	return in
}

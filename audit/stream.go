package audit

import "sync"

// Stream fans events out to live subscribers. A slow subscriber whose
// buffer is full loses the event rather than blocking the mutation path.
type Stream struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	bufferSize  int
}

func NewStream(bufferSize int) *Stream {
	return &Stream{
		subscribers: make(map[chan Event]struct{}),
		bufferSize:  bufferSize,
	}
}

func (s *Stream) Append(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for subscriber := range s.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber channel. The returned cancel
// function unregisters and closes it.
func (s *Stream) Subscribe() (<-chan Event, func()) {
	subscriber := make(chan Event, s.bufferSize)

	s.mu.Lock()
	s.subscribers[subscriber] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[subscriber]; ok {
			delete(s.subscribers, subscriber)
			close(subscriber)
		}
	}
	return subscriber, cancel
}

package runtime

import (
	"fmt"
	"strings"
)

// QueueFlushPolicy configures when the app flushes state queues.
type QueueFlushPolicy int

const (
	// FlushOnMessageAndTick flushes on any message or tick.
	FlushOnMessageAndTick QueueFlushPolicy = iota
	// FlushOnMessage flushes on messages except TickMsg.
	FlushOnMessage
	// FlushOnTick flushes only on TickMsg.
	FlushOnTick
	// FlushManual flushes only on QueueFlushMsg.
	FlushManual
)

var flushPolicyNames = map[QueueFlushPolicy]string{
	FlushOnMessageAndTick: "message_and_tick",
	FlushOnMessage:        "message",
	FlushOnTick:           "tick",
	FlushManual:           "manual",
}

// String returns the policy name used in configuration files.
func (p QueueFlushPolicy) String() string {
	if name, ok := flushPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("QueueFlushPolicy(%d)", int(p))
}

// ParseFlushPolicy parses a policy name. The empty string selects
// FlushOnMessageAndTick.
func ParseFlushPolicy(name string) (QueueFlushPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FlushOnMessageAndTick, nil
	}
	for policy, candidate := range flushPolicyNames {
		if candidate == name {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("unknown flush policy %q", name)
}

func shouldFlushQueue(policy QueueFlushPolicy, msg Message) bool {
	if _, ok := msg.(QueueFlushMsg); ok {
		return true
	}
	if policy == FlushManual {
		return false
	}
	_, isTick := msg.(TickMsg)
	switch policy {
	case FlushOnMessage:
		return !isTick
	case FlushOnTick:
		return isTick
	default:
		return true
	}
}

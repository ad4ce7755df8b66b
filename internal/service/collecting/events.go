package collecting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"trendlab/internal/domain/trend"
)

// DefaultTopic prefixes every collection event subject
const DefaultTopic = "trend"

// EventPublisher is the subset of *nats.Conn the service needs
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// CollectedEvent is published after every completed collection
type CollectedEvent struct {
	RunID       string                  `json:"runId"`
	UserID      string                  `json:"userId,omitempty"`
	Keyword     string                  `json:"keyword"`
	TotalVideos int                     `json:"totalVideos"`
	Breakdown   map[trend.Platform]int  `json:"breakdown"`
	Errors      []trend.CollectionError `json:"errors,omitempty"`
	CollectedAt time.Time               `json:"collectedAt"`
}

// CollectedSubject returns the subject a user's collection events go to.
// An empty userID yields the wildcard over all users. Any other userID is
// escaped into exactly one literal token.
func CollectedSubject(topic, userID string) string {
	if topic == "" {
		topic = DefaultTopic
	}
	if userID == "" {
		return fmt.Sprintf("%s.collected.*", topic)
	}
	return fmt.Sprintf("%s.collected.%s", topic, subjectToken(userID))
}

// subjectToken percent-encodes the bytes NATS treats as token separators or
// wildcards, plus '%' itself so distinct ids never share a token.
func subjectToken(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if needsEscape(r) {
			for _, c := range []byte(s[i : i+size]) {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func needsEscape(r rune) bool {
	switch r {
	case '.', '*', '>', '%', utf8.RuneError:
		return true
	}
	return r <= ' ' || r == 0x7f || unicode.IsSpace(r)
}

func newCollectedEvent(runID, userID string, result *trend.CollectionResult) CollectedEvent {
	return CollectedEvent{
		RunID:       runID,
		UserID:      userID,
		Keyword:     result.Keyword,
		TotalVideos: result.TotalVideos,
		Breakdown:   result.Breakdown,
		Errors:      result.Errors,
		CollectedAt: result.CollectedAt,
	}
}

func (e CollectedEvent) encode() ([]byte, error) {
	return json.Marshal(e)
}

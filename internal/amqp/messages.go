package amqp

import (
	"encoding/json"
	"time"

	"pokerboard/internal/core"
)

// LeaderboardPublishedMessage announces that a leaderboard run finished and
// where its output went. Consumers fetch the tables from the refs.
type LeaderboardPublishedMessage struct {
	Year        int       `json:"year"`
	GroupID     int64     `json:"group_id"`
	Leader      string    `json:"leader,omitempty"`
	LeaderTotal string    `json:"leader_total,omitempty"`
	Kept        int       `json:"kept"`
	Refs        []string  `json:"refs"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewLeaderboardPublishedMessage builds the message for a written report.
func NewLeaderboardPublishedMessage(report core.Report, refs []string) *LeaderboardPublishedMessage {
	msg := &LeaderboardPublishedMessage{
		Year:      report.Year,
		GroupID:   report.GroupID,
		Kept:      len(report.Raw),
		Refs:      append([]string{}, refs...),
		Timestamp: time.Now(),
	}
	if leader, ok := report.Tables.Leader(); ok {
		msg.Leader = leader.Player
		msg.LeaderTotal = core.FormatAmount(leader.Total)
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *LeaderboardPublishedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LeaderboardPublishedMessageFromJSON creates a message from JSON bytes
func LeaderboardPublishedMessageFromJSON(data []byte) (*LeaderboardPublishedMessage, error) {
	var msg LeaderboardPublishedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// ReminderMessage asks a consumer to notify the user at At.
type ReminderMessage struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	At        time.Time `json:"at"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReminderMessage creates a reminder stamped with the current time
func NewReminderMessage(title, body string, at time.Time) *ReminderMessage {
	return &ReminderMessage{
		Title:     title,
		Body:      body,
		At:        at,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON decodes a message, rejecting one without title
// or delivery time.
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Title == "" || msg.At.IsZero() {
		return nil, errors.New("reminder message missing title or time")
	}
	return &msg, nil
}

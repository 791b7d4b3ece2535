package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ExpenseRecordedMessage announces that an expense was stored locally.
// It carries only the row id; the consumer loads the expense itself.
type ExpenseRecordedMessage struct {
	EventID   string    `json:"event_id"`
	ExpenseID int64     `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseRecordedMessage(expenseID int64) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		EventID:   uuid.NewString(),
		ExpenseID: expenseID,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ExpenseID <= 0 {
		return nil, errors.New("missing expense_id")
	}
	return &msg, nil
}

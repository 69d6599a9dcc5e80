package guerrilla

import "encoding/json"

// MessageID identifies a message within a mailbox. The API returns it as a
// JSON number from some endpoints and as a string from others.
type MessageID string

// UnmarshalJSON accepts both encodings.
func (m *MessageID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*m = MessageID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = MessageID(s)
	return nil
}

// Message is a mailbox entry as returned by the list endpoint. Only the
// metadata needed to identify a message is mapped; the API returns more.
type Message struct {
	ID      MessageID `json:"mail_id"`
	From    string    `json:"mail_from"`
	Subject string    `json:"mail_subject"`
	Excerpt string    `json:"mail_excerpt"`
}

// MessageDetails is a fully fetched message including its body.
type MessageDetails struct {
	ID          MessageID `json:"mail_id"`
	From        string    `json:"mail_from"`
	Subject     string    `json:"mail_subject"`
	Body        string    `json:"mail_body"`
	ContentType string    `json:"content_type"`
}

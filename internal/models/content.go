package models

import (
	"encoding/json"
	"time"
)

// ManualContent is the structured document generated from a video. It is
// persisted as a JSON text column and materialized at the API boundary.
type ManualContent struct {
	Title           string        `json:"title"`
	Overview        string        `json:"overview"`
	Prerequisites   string        `json:"prerequisites"`
	Steps           []Step        `json:"steps"`
	Troubleshooting string        `json:"troubleshooting"`
	AdditionalInfo  string        `json:"additional_info"`
	RawContent      string        `json:"raw_content"`
	Enhancements    []Enhancement `json:"enhancements,omitempty"`
}

type Step struct {
	Title        string `json:"title"`
	Action       string `json:"action"`
	Screen       string `json:"screen"`
	Notes        string `json:"notes"`
	Verification string `json:"verification"`
	Time         string `json:"time"`
}

// Enhancement is an append-only trace entry; enhancing never rewrites the
// structured steps or earlier enhancements.
type Enhancement struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *ManualContent) Marshal() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UnmarshalContent(data string) (*ManualContent, error) {
	var c ManualContent
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

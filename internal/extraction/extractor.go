// Package extraction turns raw chat messages into vehicle descriptors using a
// chat completion model.
package extraction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JaimeStill/forecourt/internal/identify"
)

var (
	// ErrDisabled is returned when no model endpoint is configured.
	ErrDisabled = errors.New("extraction disabled")
	// ErrExtract wraps failures of the model call or its response.
	ErrExtract = errors.New("extraction failed")
)

// Message is the combined text of one chat batch. PhotoText holds text already read
// from attached photos.
type Message struct {
	Source     string    `json:"source"`
	Text       string    `json:"text"`
	PhotoText  []string  `json:"photo_text,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Empty reports whether the message carries no text at all.
func (m Message) Empty() bool {
	if strings.TrimSpace(m.Text) != "" {
		return false
	}
	for _, t := range m.PhotoText {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}

// Extractor finds the vehicles mentioned in a message.
type Extractor interface {
	Extract(ctx context.Context, msg Message) ([]identify.Descriptor, error)
}

type disabled struct{}

// Disabled returns an Extractor that always fails with ErrDisabled.
func Disabled() Extractor {
	return disabled{}
}

func (disabled) Extract(context.Context, Message) ([]identify.Descriptor, error) {
	return nil, ErrDisabled
}

// vehicle is one entry of the model response.
type vehicle struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Badge       string `json:"badge"`
	Rego        string `json:"rego"`
	RegoSource  string `json:"rego_source"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type response struct {
	Vehicles []vehicle `json:"vehicles"`
}

// descriptor converts v. A rego the model attributes to a photo, or that does not
// appear in the typed text, is low confidence.
func (v vehicle) descriptor(msg Message) identify.Descriptor {
	d := identify.Descriptor{
		Make:        strings.TrimSpace(v.Make),
		Model:       strings.TrimSpace(v.Model),
		Badge:       strings.TrimSpace(v.Badge),
		Rego:        strings.TrimSpace(v.Rego),
		Description: strings.TrimSpace(v.Description),
		Location:    strings.TrimSpace(v.Location),
	}

	if rego := identify.Normalize(d.Rego); rego != "" {
		typed := strings.Contains(identify.Normalize(msg.Text), rego)
		d.RegoLowConfidence = v.RegoSource == "photo" || !typed
	}
	return d
}

func (r response) descriptors(msg Message) []identify.Descriptor {
	out := make([]identify.Descriptor, 0, len(r.Vehicles))
	for _, v := range r.Vehicles {
		d := v.descriptor(msg)
		if d.Empty() {
			continue
		}
		out = append(out, d)
	}
	return out
}

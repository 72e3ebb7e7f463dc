package app

import (
	"context"
	"time"
)

const MenuUploadedEventType = "menu.uploaded"

type MenuUploadedEvent struct {
	ID                string      `json:"id"`
	Type              string      `json:"type"`
	Count             int         `json:"count"`
	Dates             []time.Time `json:"dates"`
	DuplicateResolved bool        `json:"duplicate_resolved"`
	UploadedAt        time.Time   `json:"uploaded_at"`
}

type MenuEventPublisher interface {
	PublishMenuUploaded(ctx context.Context, event MenuUploadedEvent) error
}

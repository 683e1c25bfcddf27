package services

import (
	"context"
	"errors"

	"github.com/yungbote/coursecraft-backend/internal/realtime"
	"github.com/yungbote/coursecraft-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage) error
}

// HubEmitter delivers to clients connected to this instance only.
type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) error {
	if e == nil || e.Hub == nil {
		return errors.New("sse hub not configured")
	}
	e.Hub.Broadcast(msg)
	return nil
}

// BusEmitter publishes through the cross-instance bus; every instance's
// forwarder then broadcasts to its own hub.
type BusEmitter struct{ Bus bus.Bus }

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) error {
	if e == nil || e.Bus == nil {
		return errors.New("sse bus not configured")
	}
	return e.Bus.Publish(ctx, msg)
}

package shroud

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for redaction events.
var (
	SignalFieldsDiscovered = capitan.NewSignal("shroud.index.discovered", "Sensitive fields discovered for a type")
	SignalProcessorCreated = capitan.NewSignal("shroud.processor.created", "Processor instantiated")
	SignalSendStart        = capitan.NewSignal("shroud.send.start", "Send operation beginning")
	SignalSendComplete     = capitan.NewSignal("shroud.send.complete", "Send operation finished")
	SignalLogFieldSkipped  = capitan.NewSignal("shroud.log.field_skipped", "Log redaction could not read a field")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeyFieldName     = capitan.NewStringKey("field_name")
	KeyFieldCount    = capitan.NewIntKey("field_count")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyMaskedCount   = capitan.NewIntKey("masked_count")
	KeyRevealedCount = capitan.NewIntKey("revealed_count")
)

// emitFieldsDiscovered emits an event when the index computes an entry.
func emitFieldsDiscovered(ctx context.Context, typeName string, count int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(count),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalFieldsDiscovered, fields...)
	} else {
		capitan.Emit(ctx, SignalFieldsDiscovered, fields...)
	}
}

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitSendStart emits an event when send begins.
func emitSendStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalSendStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitSendComplete emits an event when send finishes.
func emitSendComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, masked, revealed int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyMaskedCount.Field(masked),
		KeyRevealedCount.Field(revealed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSendComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSendComplete, fields...)
	}
}

// emitLogFieldSkipped emits an event when log redaction cannot read a field.
func emitLogFieldSkipped(ctx context.Context, typeName, field string, err error) {
	capitan.Error(ctx, SignalLogFieldSkipped,
		KeyTypeName.Field(typeName),
		KeyFieldName.Field(field),
		KeyError.Field(err),
	)
}

package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopTracer(t *testing.T) {
	tr := NewNoop()
	ctx, span := tr.Start(context.Background(), SpanVerifyPerson, String(AttrIdentifierType, "person"))

	assert.Equal(t, context.Background(), ctx)
	assert.NotPanics(t, func() {
		span.SetAttributes(Bool(AttrCached, true))
		span.AddEvent("verification.complete")
		span.End(errors.New("ignored"))
	})
}

func TestHashIdentifier(t *testing.T) {
	assert.Empty(t, HashIdentifier(""))
	assert.Len(t, HashIdentifier("12345678901"), 16)
	assert.Equal(t, HashIdentifier("12345678901"), HashIdentifier("12345678901"))
	assert.NotEqual(t, HashIdentifier("12345678901"), HashIdentifier("12345678902"))
}

package trigger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formfill/internal/autofill/form"
	"formfill/internal/autofill/trigger"
)

type startRecorder struct {
	mu      sync.Mutex
	calls   []string
	err     error
	block   chan struct{} // when set, start blocks until closed
	waiting chan struct{}
}

func (s *startRecorder) start(_ context.Context, identifier string) error {
	s.mu.Lock()
	s.calls = append(s.calls, identifier)
	s.mu.Unlock()
	if s.block != nil {
		close(s.waiting)
		<-s.block
	}
	return s.err
}

func (s *startRecorder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestFocusLostStartsVerification(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	rec := &startRecorder{}
	c := trigger.Attach(field, form.IdentifierPerson, rec.start)
	c.FocusLost(context.Background())

	require.Equal(t, 1, rec.callCount())
	assert.Equal(t, "12345678901", rec.calls[0])
}

func TestFocusLostDeduplicatesSameValue(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	rec := &startRecorder{}
	c := trigger.Attach(field, form.IdentifierPerson, rec.start)

	c.FocusLost(context.Background())
	c.FocusLost(context.Background())
	assert.Equal(t, 1, rec.callCount(), "second blur on the same value must not re-verify")

	field.SetValue("10987654321")
	c.FocusLost(context.Background())
	assert.Equal(t, 2, rec.callCount(), "a changed value verifies again")
}

func TestFocusLostRetriesAfterFailure(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	rec := &startRecorder{err: errors.New("backend down")}
	c := trigger.Attach(field, form.IdentifierPerson, rec.start)

	c.FocusLost(context.Background())
	require.Equal(t, 1, rec.callCount())

	// The value never verified, so the next blur tries again.
	c.FocusLost(context.Background())
	assert.Equal(t, 2, rec.callCount())
}

func TestFocusLostGuards(t *testing.T) {
	tests := []struct {
		name  string
		kind  form.IdentifierType
		value string
	}{
		{"empty value", form.IdentifierPerson, ""},
		{"whitespace only", form.IdentifierPerson, "   "},
		{"person too short", form.IdentifierPerson, "12345"},
		{"person non-digit", form.IdentifierPerson, "1234567890a"},
		{"organization bad rune", form.IdentifierOrganization, "RC 12345!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := form.NewMemoryField("identifier", "")
			field.SetValue(tt.value)

			rec := &startRecorder{}
			c := trigger.Attach(field, tt.kind, rec.start)
			c.FocusLost(context.Background())

			assert.Zero(t, rec.callCount())
		})
	}
}

func TestFocusLostAllowsRegistrationNumberShapes(t *testing.T) {
	for _, value := range []string{"RC123456", "123456", "BN/2020/12345", "RC-99"} {
		field := form.NewMemoryField("rcNumber", "")
		field.SetValue(value)

		rec := &startRecorder{}
		c := trigger.Attach(field, form.IdentifierOrganization, rec.start)
		c.FocusLost(context.Background())

		assert.Equal(t, 1, rec.callCount(), "value %q should verify", value)
	}
}

func TestFocusLostSkipsWhileVerifying(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	rec := &startRecorder{block: make(chan struct{}), waiting: make(chan struct{})}
	c := trigger.Attach(field, form.IdentifierPerson, rec.start)

	done := make(chan struct{})
	go func() {
		c.FocusLost(context.Background())
		close(done)
	}()
	<-rec.waiting

	// A blur arriving mid-verification is dropped, not queued.
	field.SetValue("10987654321")
	c.FocusLost(context.Background())
	assert.Equal(t, 1, rec.callCount())

	close(rec.block)
	<-done
}

func TestDetachIsIdempotent(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	rec := &startRecorder{}
	c := trigger.Attach(field, form.IdentifierPerson, rec.start)
	c.Detach()
	c.Detach()
	c.FocusLost(context.Background())

	assert.Zero(t, rec.callCount())
}

func TestResetForcesReverification(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	rec := &startRecorder{}
	c := trigger.Attach(field, form.IdentifierPerson, rec.start)
	c.FocusLost(context.Background())
	c.Reset()
	c.FocusLost(context.Background())

	assert.Equal(t, 2, rec.callCount())
}

func TestResetMidVerificationAllowsNextBlur(t *testing.T) {
	field := form.NewMemoryField("nin", "")
	field.SetValue("12345678901")

	var mu sync.Mutex
	calls := 0
	block := make(chan struct{})
	waiting := make(chan struct{})
	start := func(context.Context, string) error {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(waiting)
			<-block
		}
		return nil
	}

	c := trigger.Attach(field, form.IdentifierPerson, start)

	done := make(chan struct{})
	go func() {
		c.FocusLost(context.Background())
		close(done)
	}()
	<-waiting

	// Reset abandons the in-flight run, so a blur on the same value
	// starts a fresh verification instead of being dropped.
	c.Reset()
	c.FocusLost(context.Background())

	mu.Lock()
	got := calls
	mu.Unlock()
	assert.Equal(t, 2, got)

	close(block)
	<-done
}

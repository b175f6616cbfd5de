package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderWaitFor(t *testing.T) {
	r := NewRecorder()

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Notify(Change{Kind: Joined, Name: "#go"})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.WaitFor(ctx, HasChange(Joined)))
	assert.Len(t, r.Changes(), 1)
}

func TestRecorderWaitForTimeout(t *testing.T) {
	r := NewRecorder()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.WaitFor(ctx, HasChange(Left)), context.DeadlineExceeded)
}

func TestTeeAndFuncs(t *testing.T) {
	r := NewRecorder()
	var seen []string
	m := Tee{r, Funcs{OnBroadcast: func(ev Event) { seen = append(seen, ev.Text) }}}

	m.Broadcast(Event{Kind: EventSystem, Text: "hello"})
	m.Notify(Change{Kind: UserAdded, Name: "joe"})

	assert.Equal(t, []string{"hello"}, seen)
	assert.Len(t, r.Events(), 1)
	assert.Len(t, r.Changes(), 1)

	r.Reset()
	assert.Empty(t, r.Events())
	assert.Equal(t, "user-added", UserAdded.String())
	assert.Equal(t, "bug", EventBug.String())
}

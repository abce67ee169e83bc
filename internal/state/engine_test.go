package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modfabric/modfabric/internal/ctxlog"
)

// logBuffer is a minimal thread-safe writer for asserting on log output.
type logBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func testContext(t *testing.T) (context.Context, *logBuffer) {
	t.Helper()
	buf := &logBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func TestStoreIsCreatedLazily(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()

	assert.False(t, e.Exists())
	assert.Nil(t, e.State())

	counter, _ := Counter("clicks", 0)
	e.AddContainer(ctx, counter)

	assert.True(t, e.Exists())
	require.Contains(t, e.State(), "clicks")
	assert.Equal(t, map[string]any{"value": 0}, e.State()["clicks"])
	assert.Len(t, e.State(), 1)
}

func TestCounterScenario(t *testing.T) {
	// Scenario C: increment twice, observe 2, then reset back to 0.
	ctx, _ := testContext(t)
	e := NewEngine()
	counter, acts := Counter("clicks", 0)
	e.AddContainer(ctx, counter)

	e.Dispatch(ctx, acts.Increment())
	e.Dispatch(ctx, acts.Increment())

	sub, ok := e.Subtree("clicks")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"value": 2}, sub)

	e.Dispatch(ctx, acts.Reset())
	sub, _ = e.Subtree("clicks")
	assert.Equal(t, map[string]any{"value": 0}, sub)
}

func TestBatchAddThenTargetedDispatch(t *testing.T) {
	// Scenario D: one dispatch touching only A leaves B at its initial state.
	ctx, _ := testContext(t)
	e := NewEngine()
	a, aActs := Counter("a", 0)
	b, _ := Counter("b", 7)

	e.AddContainers(ctx, []Container{a, b})
	e.Dispatch(ctx, aActs.Increment())

	subA, _ := e.Subtree("a")
	subB, _ := e.Subtree("b")
	assert.Equal(t, map[string]any{"value": 1}, subA)
	assert.Equal(t, map[string]any{"value": 7}, subB)
}

func TestBatchAddRebuildsCombinedFunctionOnce(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()
	seed, _ := Counter("seed", 0)
	e.AddContainer(ctx, seed)

	// Fresh log buffer so only the batch add's rebuilds are counted.
	ctx2, buf := testContext(t)
	a, _ := Counter("a", 0)
	b, _ := Counter("b", 0)
	c, _ := Counter("c", 0)
	e.AddContainers(ctx2, []Container{a, b, c})

	assert.Equal(t, 1, strings.Count(buf.String(), "Combined transition function rebuilt"))
	assert.Equal(t, []string{"seed", "a", "b", "c"}, e.Containers())
}

func TestAddPreservesExistingSubtrees(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()
	a, aActs := Counter("a", 0)
	e.AddContainer(ctx, a)
	e.Dispatch(ctx, aActs.IncrementBy(5))

	b, _ := Counter("b", 0)
	e.AddContainer(ctx, b)

	subA, _ := e.Subtree("a")
	assert.Equal(t, map[string]any{"value": 5}, subA)
	subB, _ := e.Subtree("b")
	assert.Equal(t, map[string]any{"value": 0}, subB)
}

func TestCompositionIdentityLaw(t *testing.T) {
	// Removing a container straight after adding it restores the combined
	// function's behavior for state not touching its subtree.
	ctx, _ := testContext(t)
	e := NewEngine()
	base, baseActs := Counter("base", 0)
	e.AddContainer(ctx, base)
	e.Dispatch(ctx, baseActs.Increment())
	before := e.State()

	extra, _ := Counter("extra", 100)
	e.AddContainer(ctx, extra)
	e.RemoveContainer(ctx, "extra")

	assert.Equal(t, before, e.State())

	// The combined function behaves identically too.
	e.Dispatch(ctx, baseActs.Increment())
	sub, _ := e.Subtree("base")
	assert.Equal(t, map[string]any{"value": 2}, sub)
	assert.Equal(t, []string{"base"}, e.Containers())
}

func TestRemoveLastContainerRevertsToIdentity(t *testing.T) {
	ctx, buf := testContext(t)
	e := NewEngine()
	counter, acts := Counter("clicks", 0)
	e.AddContainer(ctx, counter)
	e.RemoveContainer(ctx, "clicks")

	// Store stays alive so dispatch remains safe, but actions are no-ops.
	assert.True(t, e.Exists())
	e.Dispatch(ctx, acts.Increment())
	assert.Empty(t, e.State())
	assert.Contains(t, buf.String(), "no registered containers")
}

func TestDispatchBeforeAnyContainerWarnsAndAutoCreates(t *testing.T) {
	ctx, buf := testContext(t)
	e := NewEngine()

	e.Dispatch(ctx, Action{Type: "anything"})

	assert.True(t, e.Exists())
	assert.Contains(t, buf.String(), "ordering bug")
}

func TestRemoveUnknownContainerIsNoOp(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()
	counter, _ := Counter("clicks", 0)
	e.AddContainer(ctx, counter)

	e.RemoveContainer(ctx, "never-registered")
	assert.Equal(t, []string{"clicks"}, e.Containers())
}

func TestReRegisterKeepsState(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()
	counter, acts := Counter("clicks", 0)
	e.AddContainer(ctx, counter)
	e.Dispatch(ctx, acts.Increment())

	replacement, _ := Counter("clicks", 50)
	e.AddContainer(ctx, replacement)

	sub, _ := e.Subtree("clicks")
	assert.Equal(t, map[string]any{"value": 1}, sub)
}

func TestReset(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()
	counter, _ := Counter("clicks", 0)
	e.AddContainer(ctx, counter)

	e.Reset()

	assert.False(t, e.Exists())
	assert.Nil(t, e.State())
	assert.Empty(t, e.Containers())
}

func TestCustomContainer(t *testing.T) {
	ctx, _ := testContext(t)
	e := NewEngine()
	e.AddContainer(ctx, Container{
		Name:    "log",
		Initial: []any{},
		Reducers: map[string]Reducer{
			"log/append": func(state, payload any) any {
				entries, _ := state.([]any)
				return append(append([]any{}, entries...), payload)
			},
		},
	})

	e.Dispatch(ctx, Action{Type: "log/append", Payload: "first"})
	e.Dispatch(ctx, Action{Type: "log/append", Payload: "second"})

	sub, _ := e.Subtree("log")
	assert.Equal(t, []any{"first", "second"}, sub)
}

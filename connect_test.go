package eskit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrchestrator implements Orchestrator for the fallback-tier tests.
type fakeOrchestrator struct {
	found   *Stack
	started *Stack

	findErr  error
	startErr error

	findCalls  int
	startCalls int
}

func (f *fakeOrchestrator) FindStack(_ context.Context, _ string) (*Stack, error) {
	f.findCalls++

	return f.found, f.findErr
}

func (f *fakeOrchestrator) StartStack(_ context.Context, _ *StartStackOptions) (*Stack, error) {
	f.startCalls++

	if f.startErr != nil {
		return nil, f.startErr
	}

	return f.started, nil
}

func TestConnectDirectTier(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	es := newFakeES(t, nil)
	defer es.Close()

	kibana := newFakeKibana(t)
	defer kibana.Close()

	orchestrator := &fakeOrchestrator{}

	stack, err := Connect(context.Background(), &ConnectOptions{
		Host:        hostOf(t, es.URL),
		ElasticPort: portOf(t, es.URL),
		KibanaHost:  hostOf(t, kibana.URL),
		KibanaPort:  portOf(t, kibana.URL),

		Orchestrator: orchestrator,
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	// Direct hit: the orchestrator is never consulted.
	assert.Zero(t, orchestrator.findCalls)
	assert.Zero(t, orchestrator.startCalls)

	assert.Same(t, stack, DefaultStack())
}

func TestConnectAbsentStackSentinel(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	dead := deadServer(t)

	stack, err := Connect(context.Background(), &ConnectOptions{
		Host:        hostOf(t, dead),
		ElasticPort: portOf(t, dead),
		KibanaHost:  hostOf(t, dead),
		KibanaPort:  portOf(t, dead),

		SkipOrchestration: true,
	})

	assert.NoError(t, err)
	assert.Nil(t, stack)
}

func TestConnectFailOnNotAvailable(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	dead := deadServer(t)

	stack, err := Connect(context.Background(), &ConnectOptions{
		Host:        hostOf(t, dead),
		ElasticPort: portOf(t, dead),
		KibanaHost:  hostOf(t, dead),
		KibanaPort:  portOf(t, dead),

		SkipOrchestration:  true,
		FailOnNotAvailable: true,
	})

	assert.Error(t, err)
	assert.Nil(t, stack)
}

func TestConnectContainerLookupTier(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	es := newFakeES(t, nil)
	defer es.Close()

	kibana := newFakeKibana(t)
	defer kibana.Close()

	dead := deadServer(t)

	orchestrator := &fakeOrchestrator{found: stackFor(t, es.URL, kibana.URL)}

	stack, err := Connect(context.Background(), &ConnectOptions{
		Host:        hostOf(t, dead),
		ElasticPort: portOf(t, dead),
		KibanaHost:  hostOf(t, dead),
		KibanaPort:  portOf(t, dead),

		Orchestrator: orchestrator,
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	assert.Equal(t, 1, orchestrator.findCalls)
	assert.Zero(t, orchestrator.startCalls)

	assert.Same(t, orchestrator.found, stack)
	assert.Same(t, stack, DefaultStack())
}

func TestConnectLaunchTier(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	es := newFakeES(t, nil)
	defer es.Close()

	kibana := newFakeKibana(t)
	defer kibana.Close()

	dead := deadServer(t)

	orchestrator := &fakeOrchestrator{started: stackFor(t, es.URL, kibana.URL)}

	stack, err := Connect(context.Background(), &ConnectOptions{
		Host:        hostOf(t, dead),
		ElasticPort: portOf(t, dead),
		KibanaHost:  hostOf(t, dead),
		KibanaPort:  portOf(t, dead),

		StartStack:  true,
		WaitTimeout: 5 * time.Second,

		Orchestrator: orchestrator,
	})
	require.NoError(t, err)
	require.NotNil(t, stack)

	assert.Equal(t, 1, orchestrator.findCalls)
	assert.Equal(t, 1, orchestrator.startCalls)

	assert.Same(t, orchestrator.started, stack)
	assert.Same(t, stack, DefaultStack())
}

func TestConnectLookupFailsWithoutLaunchPermission(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	dead := deadServer(t)

	orchestrator := &fakeOrchestrator{}

	stack, err := Connect(context.Background(), &ConnectOptions{
		Host:        hostOf(t, dead),
		ElasticPort: portOf(t, dead),
		KibanaHost:  hostOf(t, dead),
		KibanaPort:  portOf(t, dead),

		Orchestrator: orchestrator,
	})

	assert.NoError(t, err)
	assert.Nil(t, stack)

	assert.Equal(t, 1, orchestrator.findCalls)
	assert.Zero(t, orchestrator.startCalls)
}

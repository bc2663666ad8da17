package eskit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStackDefaults(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	s, err := NewStack(nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost", s.Host)
	assert.Equal(t, 9200, s.ElasticPort)
	assert.Equal(t, "http://localhost:9200", s.URL())

	require.NotNil(t, s.Kibana)
	assert.Equal(t, "http://localhost:5601", s.Kibana.URL())

	// Becomes the process-wide default unless suppressed.
	assert.Same(t, s, DefaultStack())
}

func TestNewStackSkipDefaultRegistration(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	ResetDefaultStack()

	s, err := NewStack(&StackOptions{SkipDefaultRegistration: true})
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Nil(t, DefaultStack())
}

func TestDefaultStackRegistry(t *testing.T) {
	t.Cleanup(ResetDefaultStack)

	r := &Registry{}

	assert.Nil(t, r.Get())

	s := &Stack{Host: "localhost"}

	r.Set(s)
	assert.Same(t, s, r.Get())

	r.Reset()
	assert.Nil(t, r.Get())
}

func TestAlive(t *testing.T) {
	es := newFakeES(t, nil)
	defer es.Close()

	kibana := newFakeKibana(t)
	defer kibana.Close()

	s := stackFor(t, es.URL, kibana.URL)

	assert.True(t, s.Alive(context.Background()))
}

func TestAliveRequiresKibana(t *testing.T) {
	es := newFakeES(t, nil)
	defer es.Close()

	s := stackFor(t, es.URL, deadServer(t))

	assert.False(t, s.Alive(context.Background()))
}

func TestAliveRestoresRetryPolicy(t *testing.T) {
	dead := deadServer(t)

	s := stackFor(t, dead, dead)

	orig := s.maxRetries
	require.NotZero(t, orig)

	assert.False(t, s.Alive(context.Background()))

	assert.Equal(t, orig, s.maxRetries)
}

func TestWaitForDeadStack(t *testing.T) {
	dead := deadServer(t)

	s := stackFor(t, dead, dead)

	start := time.Now()

	ok, err := s.WaitFor(context.Background(), 200*time.Millisecond, 50*time.Millisecond, false)

	assert.False(t, ok)
	assert.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestWaitForDeadStackFailOnTimeout(t *testing.T) {
	dead := deadServer(t)

	s := stackFor(t, dead, dead)

	ok, err := s.WaitFor(context.Background(), 100*time.Millisecond, 25*time.Millisecond, true)

	assert.False(t, ok)
	assert.Error(t, err)
}

func TestWaitForAliveStack(t *testing.T) {
	es := newFakeES(t, nil)
	defer es.Close()

	kibana := newFakeKibana(t)
	defer kibana.Close()

	s := stackFor(t, es.URL, kibana.URL)

	ok, err := s.WaitFor(context.Background(), 2*time.Second, 50*time.Millisecond, true)

	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestStackString(t *testing.T) {
	s, err := NewStack(&StackOptions{SkipDefaultRegistration: true})
	require.NoError(t, err)

	assert.Contains(t, s.String(), "Elasticsearch on http://localhost:9200")
	assert.Contains(t, s.String(), "Kibana on http://localhost:5601")
}

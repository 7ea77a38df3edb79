package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func musicStub(priority int) *stubHandler {
	return &stubHandler{desc: Descriptor{
		Name:         "music",
		Priority:     priority,
		Capabilities: []string{"play_audio"},
		TaskTypes:    []string{"play", "pause"},
		Keywords: map[string]Binding{
			"播放音乐": {TaskType: "play"},
			"暂停":   {TaskType: "pause"},
		},
	}}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry(DefaultRegistryConfig())

	err := r.Register(musicStub(2))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	h, err := r.Get("music")
	require.NoError(t, err)
	assert.Equal(t, "music", h.Descriptor().Name)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry(DefaultRegistryConfig())

	require.NoError(t, r.Register(musicStub(2)))
	err := r.Register(musicStub(3))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryRejectsUndeclaredTaskType(t *testing.T) {
	r := NewRegistry(DefaultRegistryConfig())

	err := r.Register(&stubHandler{desc: Descriptor{
		Name:      "broken",
		Priority:  5,
		TaskTypes: []string{"play"},
		Keywords: map[string]Binding{
			"停止": {TaskType: "stop"},
		},
	}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared task type")
}

func TestRegistryRejectsPriorityOutOfRange(t *testing.T) {
	r := NewRegistry(DefaultRegistryConfig())

	err := r.Register(&stubHandler{desc: Descriptor{
		Name:      "rogue",
		Priority:  101,
		TaskTypes: []string{"noop"},
	}})
	assert.Error(t, err)
}

func TestRegistryFreeze(t *testing.T) {
	r := NewRegistry(DefaultRegistryConfig())
	require.NoError(t, r.Register(musicStub(2)))

	r.Freeze()

	err := r.Register(&stubHandler{desc: Descriptor{
		Name:      "late",
		Priority:  5,
		TaskTypes: []string{"noop"},
	}})
	assert.ErrorIs(t, err, ErrRegistryFrozen)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry(DefaultRegistryConfig())

	_, err := r.Get("ghost")
	assert.ErrorIs(t, err, ErrUnknownHandler)
}

func TestRegistryOrderedByPriorityThenRegistration(t *testing.T) {
	a := &stubHandler{desc: Descriptor{Name: "a", Priority: 5, TaskTypes: []string{"noop"}}}
	b := &stubHandler{desc: Descriptor{Name: "b", Priority: 1, TaskTypes: []string{"noop"}}}
	c := &stubHandler{desc: Descriptor{Name: "c", Priority: 5, TaskTypes: []string{"noop"}}}

	r := newTestRegistry(a, b, c)

	ordered := r.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "b", ordered[0].Descriptor().Name)
	assert.Equal(t, "a", ordered[1].Descriptor().Name) // registered before c
	assert.Equal(t, "c", ordered[2].Descriptor().Name)
}

func TestRegistryFreezeSnapshotsOrder(t *testing.T) {
	a := &stubHandler{desc: Descriptor{Name: "a", Priority: 5, TaskTypes: []string{"noop"}}}
	b := &stubHandler{desc: Descriptor{Name: "b", Priority: 1, TaskTypes: []string{"noop"}}}
	c := &stubHandler{desc: Descriptor{Name: "c", Priority: 3, TaskTypes: []string{"noop"}}}

	r := newTestRegistry(a, b, c)
	r.Freeze()

	ordered := r.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "b", ordered[0].Descriptor().Name)
	assert.Equal(t, "c", ordered[1].Descriptor().Name)
	assert.Equal(t, "a", ordered[2].Descriptor().Name)

	// Callers get their own slice; mutating it must not corrupt the snapshot.
	ordered[0], ordered[2] = ordered[2], ordered[0]

	again := r.Ordered()
	assert.Equal(t, "b", again[0].Descriptor().Name)
	assert.Equal(t, "a", again[2].Descriptor().Name)
}

func TestRegistryCatalog(t *testing.T) {
	r := newTestRegistry(musicStub(2))

	catalog := r.Catalog()
	require.Len(t, catalog, 1)
	assert.Equal(t, "music", catalog[0].Name)
	assert.Contains(t, catalog[0].Capabilities, "play_audio")
}

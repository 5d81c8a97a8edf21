package db

import "sync"

// KeyedMutex hands out one mutex per key. It is the row-lock equivalent for
// this storage engine: a round holds its user's lock from seed fetch through
// commit, so two in-flight rounds for the same user can never interleave and
// reuse a seed counter. Locks are never removed; the key space is bounded by
// the user population.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key int64) {
	k.get(key).Lock()
}

func (k *KeyedMutex) Unlock(key int64) {
	k.get(key).Unlock()
}

func (k *KeyedMutex) get(key int64) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

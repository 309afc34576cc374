package storage

import "sync"

// Memory is an in-process Slots implementation. It keeps nothing across
// restarts and is meant for tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory returns an empty in-memory slot store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get implements Slots.Get.
func (m *Memory) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

// Put implements Slots.Put.
func (m *Memory) Put(key string, value []byte) error {
	return m.Update(func(w Writer) error { return w.Put(key, value) })
}

// Delete implements Slots.Delete.
func (m *Memory) Delete(key string) error {
	return m.Update(func(w Writer) error { return w.Delete(key) })
}

// Update implements Slots.Update. Mutations are staged and applied only
// when all of them succeed.
func (m *Memory) Update(mutations ...Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := &memoryTx{puts: make(map[string][]byte), deletes: make(map[string]bool)}
	for _, mutate := range mutations {
		if mutate == nil {
			continue
		}
		if err := mutate(staged); err != nil {
			return err
		}
	}

	for key := range staged.deletes {
		delete(m.values, key)
	}
	for key, value := range staged.puts {
		m.values[key] = value
	}
	return nil
}

// Close implements Slots.Close.
func (m *Memory) Close() error {
	return nil
}

type memoryTx struct {
	puts    map[string][]byte
	deletes map[string]bool
}

func (tx *memoryTx) Put(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	delete(tx.deletes, key)
	tx.puts[key] = append([]byte(nil), value...)
	return nil
}

func (tx *memoryTx) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	delete(tx.puts, key)
	tx.deletes[key] = true
	return nil
}

package output

import "sync"

// Record is one emitted embedding.
type Record struct {
	Name       string
	Occurrence uint32
	Vector     []float32
}

// Collector is an in-memory Writer.
type Collector struct {
	mu        sync.Mutex
	Entities  int
	Dimension int
	Records   []Record
	Metadata  int // number of PutMetadata calls
	Finished  int // number of Finish calls
}

func (c *Collector) PutMetadata(entities, dimension int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entities, c.Dimension = entities, dimension
	c.Metadata++
	return nil
}

func (c *Collector) PutData(name string, occurrence uint32, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Metadata == 0 {
		return ErrNoMetadata
	}
	if c.Finished > 0 {
		return ErrFinished
	}
	c.Records = append(c.Records, Record{
		Name:       name,
		Occurrence: occurrence,
		Vector:     append([]float32(nil), vector...),
	})
	return nil
}

func (c *Collector) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Finished++
	return nil
}

// ByName indexes the collected records by name.
func (c *Collector) ByName() map[string]Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Record, len(c.Records))
	for _, r := range c.Records {
		out[r.Name] = r
	}
	return out
}

package testutil

// StaticIDGenerator returns the same table id every time.
//
// Unlike engine.FixedGenerator, which hands out a sequence and panics when
// it runs out, a StaticIDGenerator can back any number of controllers. A
// scenario that rebuilds its table gets the same id each time, so golden
// snapshots stay byte-identical.
//
// Thread-safety: StaticIDGenerator is stateless and safe for concurrent use.
type StaticIDGenerator struct {
	id string
}

// NewStaticIDGenerator creates a generator for id.
// If id is empty, Generate returns "test-table-default".
func NewStaticIDGenerator(id string) *StaticIDGenerator {
	if id == "" {
		id = "test-table-default"
	}
	return &StaticIDGenerator{id: id}
}

// Generate returns the fixed id.
// Implements engine.IDGenerator.
func (g *StaticIDGenerator) Generate() string {
	return g.id
}

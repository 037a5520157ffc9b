package model

// indexer interface is design to give a unique index to a reservation's attributes and vice versa
type indexer interface {
	// Returns a unique index to a combination of reservation's attributes
	Index(resource ResourceKind, entity, slot uint64) uint64
	// Returns a combination of reservation's attributes from a unique index
	Attributes(index uint64) (resource ResourceKind, entity uint64, slot uint64)
}

func newIndexer(entities, slots uint64) indexer {
	return &indexerImplementation{
		entities: entities,
		slots:    slots,
	}
}

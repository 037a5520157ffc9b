package model

type indexerImplementation struct {
	entities uint64
	slots    uint64
}

func (indexer *indexerImplementation) Index(resource ResourceKind, entity, slot uint64) uint64 {
	return slot + indexer.slots*entity + indexer.slots*indexer.entities*uint64(resource)
}

func (indexer *indexerImplementation) Attributes(index uint64) (resource ResourceKind, entity, slot uint64) {
	slot = index % indexer.slots
	index = index / indexer.slots

	entity = index % indexer.entities
	index = index / indexer.entities

	resource = ResourceKind(index)

	return resource, entity, slot
}

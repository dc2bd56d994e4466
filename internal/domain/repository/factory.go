package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Carts() CartRepository
	Catalog() CatalogRepository
	DeliverySlots() DeliverySlotRepository
	PaymentModes() PaymentModeRepository
	Addresses() AddressRepository
	Orders() OrderRepository
	Sequences() SequenceRepository
	Outbox() OutboxRepository
}

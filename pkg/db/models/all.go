package models

// All lists every persisted model, in dependency order, for sqlite AutoMigrate.
func All() []any {
	return []any{&Product{}, &Order{}, &OrderLine{}, &OutboxEvent{}}
}

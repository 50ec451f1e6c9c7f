package port

import "context"

//go:generate mockgen -source=notifier.go -destination=mock/notifier.go -package=mock
type Notifier interface {
	// SendOrderConfirmation is best-effort: checkout never waits on it and
	// never fails because of it.
	SendOrderConfirmation(ctx context.Context, email string, orderCode string) error
}

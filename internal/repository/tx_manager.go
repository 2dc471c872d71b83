package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Wishlists() WishlistRepository
	WishlistItems() WishlistItemRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	OTPCodes() OTPRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

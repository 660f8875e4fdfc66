package session

import "context"

// Store 烹飪進度的持久層；Get 找不到時回傳 ErrNotFound，不判斷是否過期
type Store interface {
	Get(ctx context.Context, recipeID string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, recipeID string) error
	Close() error
}

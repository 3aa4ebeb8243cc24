package promocode

import "errors"

var (
	// ErrPromoNotFound возвращается, когда промокод не найден
	ErrPromoNotFound = errors.New("promocode.repository: promo code not found")

	// ErrDuplicateCode промокод с таким кодом уже существует
	ErrDuplicateCode = errors.New("promocode.repository: duplicate promo code")

	// ErrUsageLimitReached лимит использований исчерпан (или промокод отключен)
	ErrUsageLimitReached = errors.New("promocode.repository: usage limit reached")

	ErrBuildQuery = errors.New("promocode.repository: failed to build query")
	ErrExecQuery  = errors.New("promocode.repository: failed to execute query")
	ErrScanRow    = errors.New("promocode.repository: failed to scan row")
)

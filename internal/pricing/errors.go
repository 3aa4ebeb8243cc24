package pricing

import "errors"

var (
	// ErrPromoInactive промокод отключён администратором
	ErrPromoInactive = errors.New("pricing: promo code is inactive")

	// ErrPromoNotStarted срок действия промокода ещё не наступил
	ErrPromoNotStarted = errors.New("pricing: promo code is not valid yet")

	// ErrPromoExpired срок действия промокода истёк
	ErrPromoExpired = errors.New("pricing: promo code has expired")

	// ErrPromoExhausted лимит использований промокода исчерпан
	ErrPromoExhausted = errors.New("pricing: promo code usage limit reached")

	// ErrInvalidTiers некорректная сетка возрастных скидок
	ErrInvalidTiers = errors.New("pricing: invalid age tiers")
)

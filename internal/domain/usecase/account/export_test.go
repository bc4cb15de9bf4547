package account

// SetCodeSource replaces the referral code generator
func SetCodeSource(u *AccountUseCase, draw func() (string, error)) {
	u.drawCode = draw
}

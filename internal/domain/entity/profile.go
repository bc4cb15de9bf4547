package entity

// Profile is the signed-in user's summary, always built from the stored user
type Profile struct {
	ID            uint64 `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	ReferralCode  string `json:"referralCode"`
	Balance       string `json:"balance"`
	EmailVerified bool   `json:"emailVerified"`
}

// UserToProfile converts a User entity to its profile summary
func UserToProfile(user *User) Profile {
	return Profile{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		ReferralCode:  user.ReferralCode,
		Balance:       user.GetBalance(),
		EmailVerified: user.EmailVerified,
	}
}

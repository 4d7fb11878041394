package helpers

import "golang.org/x/crypto/bcrypt"

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// bcrypt performs the comparison in constant time.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func hashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BcryptHasher hashes and verifies credentials passwords.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is out of bcrypt's range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	return hashPassword(plain, h.Cost)
}

func (h *BcryptHasher) Verify(plain, hash string) bool {
	return CompareHashAndPassword(hash, plain)
}

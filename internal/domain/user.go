package domain

// User is the single locally stored identity. The password is kept verbatim
// in the persisted record; there is no real backend behind this store, so no
// hashing is applied. API responses must never include it.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

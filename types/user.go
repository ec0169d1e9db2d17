package types

// User represents a marketplace account as returned by the API.
// It is also the snapshot the client keeps alongside the session.
type User struct {
	// ID is the unique identifier of the user.
	ID int64 `json:"id"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName"`

	// LastName is the user's family name.
	LastName string `json:"lastName"`

	// Email is the user's email address. It identifies the profile
	// resource and cannot be changed from the client.
	Email string `json:"email"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// Role indicates whether the account acts as a job seeker or an
	// employer (e.g., "applicant", "employer").
	Role string `json:"role,omitempty"`
}

// FullName joins the first and last name, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserProfile is a User enriched with flags derived from the user's
// applicant records. The derived fields are never stored on the profile
// resource itself.
type UserProfile struct {
	User

	// IsVerified is true when the most recent applicant record is
	// approved or has its verification email marked as sent.
	IsVerified bool `json:"isVerified"`

	// ApplicantID is the id of the most recent applicant record, zero
	// when the user has none.
	ApplicantID int64 `json:"applicantId,omitempty"`
}

// DeriveVerification computes IsVerified and ApplicantID from the
// applicant records in server order. The first record is the latest one;
// the client does not re-sort.
func (p *UserProfile) DeriveVerification(apps []Application) {
	p.IsVerified = false
	p.ApplicantID = 0
	if len(apps) == 0 {
		return
	}
	latest := apps[0]
	p.ApplicantID = latest.ApplicationID
	p.IsVerified = latest.Status == StatusApproved || bool(latest.EmailSent)
}

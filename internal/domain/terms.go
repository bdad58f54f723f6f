package domain

import "time"

// TermsType clasifica un documento de términos.
type TermsType string

const (
	TermsTypeService   TermsType = "SERVICE"
	TermsTypePrivacy   TermsType = "PRIVACY"
	TermsTypeMarketing TermsType = "MARKETING"
)

// Terms es un documento de términos versionado. Inmutable salvo el flag Active.
type Terms struct {
	ID        string    `json:"-"`
	PublicID  string    `json:"public_id"`
	Type      TermsType `json:"type"`
	Title     string    `json:"title"`
	Version   string    `json:"version"`
	Required  bool      `json:"required"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserTermsAgreement registra la respuesta de un usuario a un término.
// Único por (UserID, TermsID); se actualiza en sitio, nunca se duplica.
type UserTermsAgreement struct {
	ID       string    `json:"-"`
	UserID   string    `json:"-"`
	TermsID  string    `json:"-"`
	Agreed   bool      `json:"agreed"`
	AgreedAt time.Time `json:"agreed_at"`
}

func (a *UserTermsAgreement) Agree(now time.Time) {
	a.Agreed = true
	a.AgreedAt = now
}

func (a *UserTermsAgreement) Withdraw(now time.Time) {
	a.Agreed = false
	a.AgreedAt = now
}

package models

import "time"

// Certificate holds uploaded PEM material. The config generator only needs the
// name; the SSL file manager writes the PEM content to disk under that name.
type Certificate struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Certificate string    `json:"certificate"` // PEM
	PrivateKey  string    `json:"-"`           // PEM, never serialized
	Issuer      string    `json:"issuer"`
	ExpiresAt   time.Time `json:"expires_at"`
	AutoRenew   bool      `json:"auto_renew" gorm:"default:false"`

	DomainMappings []CertificateDomainMapping `json:"domain_mappings,omitempty" gorm:"foreignKey:CertificateID"`
}

// CertificateDomainMapping associates a certificate with a domain it secures.
type CertificateDomainMapping struct {
	CertificateID uint `json:"certificate_id" gorm:"primaryKey;autoIncrement:false"`
	DomainID      uint `json:"domain_id" gorm:"primaryKey;autoIncrement:false"`

	Certificate *Certificate `json:"certificate,omitempty" gorm:"foreignKey:CertificateID"`
	Domain      *Domain      `json:"domain,omitempty" gorm:"foreignKey:DomainID"`
}
